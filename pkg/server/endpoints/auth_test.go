package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server/store"
)

func loginBody(email, password string) string {
	return `{"data":{"type":"user","attributes":{"email":"` + email + `","password":"` + password + `"}}}`
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("Tajne-Haslo-123")
	require.NoError(t, err)

	active := &model.User{ID: 7, Email: "jan@example.com", Password: hash, Role: model.UserRoleUser, IsActive: true}
	inactive := &model.User{ID: 8, Email: "off@example.com", Password: hash, Role: model.UserRoleUser}

	tests := []struct {
		name   string
		body   string
		setup  func(ts *testServer)
		status int
		detail string
	}{
		{
			name: "valid credentials",
			body: loginBody("jan@example.com", "Tajne-Haslo-123"),
			setup: func(ts *testServer) {
				ts.users.On("FetchUserByEmail", "jan@example.com").Return(active, nil)
			},
			status: http.StatusCreated,
		},
		{
			name: "wrong password",
			body: loginBody("jan@example.com", "nope"),
			setup: func(ts *testServer) {
				ts.users.On("FetchUserByEmail", "jan@example.com").Return(active, nil)
			},
			status: http.StatusUnauthorized,
			detail: invalidCredentials,
		},
		{
			name: "unknown email",
			body: loginBody("ghost@example.com", "Tajne-Haslo-123"),
			setup: func(ts *testServer) {
				ts.users.On("FetchUserByEmail", "ghost@example.com").Return(nil, store.ErrNotFound)
			},
			status: http.StatusUnauthorized,
			detail: invalidCredentials,
		},
		{
			name: "inactive account",
			body: loginBody("off@example.com", "Tajne-Haslo-123"),
			setup: func(ts *testServer) {
				ts.users.On("FetchUserByEmail", "off@example.com").Return(inactive, nil)
			},
			status: http.StatusUnauthorized,
			detail: "Account is inactive",
		},
		{
			name:   "missing password",
			body:   loginBody("jan@example.com", ""),
			setup:  func(ts *testServer) {},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "wrong type",
			body:   `{"data":{"type":"dataset","attributes":{}}}`,
			setup:  func(ts *testServer) {},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setup(ts)

			rec := ts.do("POST", "/auth/login", "", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			doc := decode(t, rec)

			if tt.status != http.StatusCreated {
				require.NotEmpty(t, doc.Errors)
				if tt.detail != "" {
					assert.Equal(t, tt.detail, doc.Errors[0].Detail)
				}
				return
			}

			obj := doc.one(t)
			assert.Equal(t, "user", obj.Type)
			assert.Equal(t, "7", obj.ID)
			assert.NotContains(t, obj.Attributes, "password")
			token, ok := doc.Meta["token"].(string)
			require.True(t, ok)
			claims, err := ts.Tokens.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "jan@example.com", claims.Email)
			_, err = time.Parse(time.RFC3339, doc.Meta["expires_at"].(string))
			assert.NoError(t, err)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do("GET", "/auth/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do("GET", "/auth/user", ts.login(t, testUser), "")
	require.Equal(t, http.StatusOK, rec.Code)
	obj := decode(t, rec).one(t)
	assert.Equal(t, "jan@example.com", obj.Attributes["email"])
	assert.Equal(t, "user", obj.Attributes["role"])
}

func TestSubscriptions(t *testing.T) {
	ts := newTestServer(t)
	bearer := ts.login(t, testUser)

	watcher := &model.Watcher{ID: 4, WatcherType: model.WatcherTypeModel, ObjectName: "dataset", ObjectIdent: "1"}
	own := &model.Subscription{ID: 21, UserID: testUser.ID, WatcherID: 4, Watcher: watcher, Name: "woda"}
	foreign := &model.Subscription{ID: 22, UserID: 99, WatcherID: 4, Watcher: watcher}

	ts.watchers.On("ListSubscriptions", testUser.ID, 0, 20).Return([]model.Subscription{*own}, 1, nil)
	ts.watchers.On("FetchSubscription", uint(21)).Return(own, nil)
	ts.watchers.On("FetchSubscription", uint(22)).Return(foreign, nil)
	ts.watchers.On("DeleteSubscription", uint(21)).Return(nil)

	rec := ts.do("GET", "/auth/subscriptions", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	objs := decode(t, rec).many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "dataset", objs[0].Attributes["object_name"])
	assert.Equal(t, "https://api.test/datasets/1", objs[0].Attributes["object_url"])

	rec = ts.do("GET", "/auth/subscriptions/21", bearer, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do("GET", "/auth/subscriptions/22", bearer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do("DELETE", "/auth/subscriptions/21", bearer, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do("DELETE", "/auth/subscriptions/22", bearer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribe(t *testing.T) {
	ds := sampleDataset()
	body := `{"data":{"type":"subscription","attributes":{"object_name":"dataset","object_ident":"1,jakosc-wody","name":"woda"}}}`

	t.Run("creates watcher and subscription", func(t *testing.T) {
		ts := newTestServer(t)
		ts.datasets.On("FetchDataset", uint(1)).Return(&ds, nil)
		ts.watchers.On("FindWatcher", "dataset", "1").Return(nil, store.ErrNotFound)
		ts.watchers.On("CreateWatcher", mock.AnythingOfType("*model.Watcher")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Watcher).ID = 4
		}).Return(nil)
		ts.watchers.On("CreateSubscription", mock.MatchedBy(func(s *model.Subscription) bool {
			return s.UserID == testUser.ID && s.WatcherID == 4 && s.Name == "woda"
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Subscription).ID = 30
		}).Return(nil)

		rec := ts.do("POST", "/auth/subscriptions", ts.login(t, testUser), body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		obj := decode(t, rec).one(t)
		assert.Equal(t, "30", obj.ID)
		assert.Equal(t, "1", obj.Attributes["object_ident"])
	})

	t.Run("already subscribed", func(t *testing.T) {
		ts := newTestServer(t)
		watcher := &model.Watcher{ID: 4, ObjectName: "dataset", ObjectIdent: "1"}
		ts.datasets.On("FetchDataset", uint(1)).Return(&ds, nil)
		ts.watchers.On("FindWatcher", "dataset", "1").Return(watcher, nil)
		ts.watchers.On("FindSubscription", testUser.ID, uint(4)).Return(&model.Subscription{ID: 21}, nil)

		rec := ts.do("POST", "/auth/subscriptions", ts.login(t, testUser), body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown object", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do("POST", "/auth/subscriptions", ts.login(t, testUser),
			`{"data":{"type":"subscription","attributes":{"object_name":"planet","object_ident":"1"}}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		doc := decode(t, rec)
		assert.Equal(t, "/data/attributes/object_name", doc.Errors[0].Source.Pointer)
	})
}

func TestNotifications(t *testing.T) {
	ts := newTestServer(t)
	bearer := ts.login(t, testUser)

	unread := model.NotificationStatusNew
	ts.watchers.On("ListNotifications", testUser.ID, &unread, 0, 20).Return([]model.Notification{
		{ID: 5, SubscriptionID: 21, NotificationType: model.NotificationTypeObjectUpdated, Status: model.NotificationStatusNew, CreatedAt: created},
	}, 1, nil)
	ts.watchers.On("MarkNotificationsRead", testUser.ID, []uint{5, 6}).Return(2, nil)
	ts.watchers.On("MarkNotificationsRead", testUser.ID, []uint(nil)).Return(4, nil)
	ts.watchers.On("CountNotifications", testUser.ID, model.NotificationStatusNew).Return(3, nil)

	rec := ts.do("GET", "/auth/notifications?status=new", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	objs := decode(t, rec).many(t)
	require.Len(t, objs, 1)
	assert.Equal(t, "object_updated", objs[0].Attributes["notification_type"])

	rec = ts.do("GET", "/auth/notifications?status=archived", bearer, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do("PATCH", "/auth/notifications", bearer,
		`{"data":[{"type":"notification","id":"5"},{"type":"notification","id":"6"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), decode(t, rec).Meta["updated"])

	rec = ts.do("PATCH", "/auth/notifications", bearer, `{"meta":{"all":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), decode(t, rec).Meta["updated"])

	rec = ts.do("PATCH", "/auth/notifications", bearer, `{"data":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do("PATCH", "/auth/notifications", bearer, `{"data":[{"type":"notification","id":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do("GET", "/auth/notifications/unread-count", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec).Meta["count"])
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name  string
		trust bool
		want  string
	}{
		{"forwarding headers ignored by default", false, "192.0.2.10"},
		{"forwarding headers trusted behind a proxy", true, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.Config.TrustProxyHeaders = tt.trust
			ts.Router.HandleFunc("/client-ip", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(clientIP(r)))
			})

			req := httptest.NewRequest("GET", "/client-ip", nil)
			req.RemoteAddr = "192.0.2.10:51234"
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			rec := httptest.NewRecorder()
			ts.Handler().ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
