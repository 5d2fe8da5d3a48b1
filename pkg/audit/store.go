package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// Subjected is implemented by events about a single portal object. The
// subject is stored in its own columns so an object's history can be
// looked up without scanning sdata.
type Subjected interface {
	Subject() (kind, ident string)
}

// Run is implemented by events that belong to a harvest run
type Run interface {
	HarvestRun() string
}

const insertMessage = `
	INSERT INTO audit_messages
		(facility, severity, timestamp, hostname, appname, procid, msgid, subject_type, subject_id, run_id, sdata, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Store persists audit events to the audit_messages table
type Store struct {
	db       *sql.DB
	hostname string
	procid   string
	now      func() time.Time
}

// NewStore creates a new audit store from AUDIT_DATABASE_URL.
// Returns nil if AUDIT_DATABASE_URL is not set.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB creates a store on an existing connection
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{
		db:       db,
		hostname: hostname,
		procid:   strconv.Itoa(os.Getpid()),
		now:      time.Now,
	}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	sdata, err := json.Marshal(event.StructuredData())
	if err != nil {
		return err
	}

	var kind, ident, run sql.NullString
	if e, ok := event.(Subjected); ok {
		k, id := e.Subject()
		kind = nullString(k)
		ident = nullString(id)
	}
	if e, ok := event.(Run); ok {
		run = nullString(e.HarvestRun())
	}

	_, err = s.db.Exec(insertMessage,
		event.Facility(),
		int(event.Severity()),
		s.now().UTC(),
		s.hostname,
		AppName,
		s.procid,
		event.MessageID(),
		kind,
		ident,
		run,
		sdata,
		event.Message(),
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
