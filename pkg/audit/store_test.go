package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := LoginEvent{
		Email:    "jan@dane.gov.pl",
		ClientIP: "10.0.0.1",
		Success:  true,
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"mcod",            // appname
			sqlmock.AnyArg(),  // procid
			"login",           // msgid
			nil,               // subject_type
			nil,               // subject_id
			nil,               // run_id
			sqlmock.AnyArg(),  // sdata (JSON)
			sqlmock.AnyArg(),  // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveHarvestEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := HarvestEvent{
		SourceID:   3,
		SourceName: "CKAN Wrocław",
		RunID:      "4f1c",
		Status:     "ok-partial-errors",
		Invalid:    2,
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityUser,
			int(SeverityWarning), // Partial imports have warning severity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"mcod",
			sqlmock.AnyArg(),
			"harvest",
			"data_source",
			"3",
			"4f1c",
			sqlmock.AnyArg(),
			"harvest of CKAN Wrocław finished with status ok-partial-errors: 0 created, 0 updated, 0 deleted, 2 invalid",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveSubscriptionSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityUser,
			int(SeverityInfo),
			at,
			sqlmock.AnyArg(),
			"mcod",
			sqlmock.AnyArg(),
			"subscription",
			"dataset",
			"42",
			nil,
			sqlmock.AnyArg(),
			"user 7 subscribed dataset 42",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := SubscriptionEvent{UserID: 7, ObjectName: "dataset", ObjectIdent: "42", Operation: "subscribe", Success: true}
	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WillReturnError(errors.New("relation does not exist"))

	if err := store.Save(LinkCheckEvent{Checked: 1}); err == nil {
		t.Error("Save() expected error")
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	// Should not error when db is nil
	err := store.Save(LoginEvent{Email: "jan@dane.gov.pl"})
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil || store != nil {
		t.Errorf("NewStore() = %v, %v; want nil, nil", store, err)
	}
}
