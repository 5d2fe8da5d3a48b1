package endpoints

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/audit"
	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/config"
	"github.com/otwartedane/mcod/pkg/model"
	"github.com/otwartedane/mcod/pkg/server"
	"github.com/otwartedane/mcod/pkg/server/store/mocks"
)

func init() {
	audit.SetEnabled(false)
}

// testServer is a server wired to mock stores
type testServer struct {
	*server.Server

	health        *mocks.HealthStore
	datasets      *mocks.DatasetsStore
	resources     *mocks.ResourcesStore
	organizations *mocks.OrganizationsStore
	users         *mocks.UsersStore
	watchers      *mocks.WatchersStore
	schedules     *mocks.SchedulesStore
	sources       *mocks.DataSourcesStore
	harvest       *mocks.HarvestStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.NewDefault()
	cfg.BaseURL = "https://api.test"

	tokens, err := auth.NewTokenIssuer([]byte("endpoint-test-secret"), time.Hour)
	require.NoError(t, err)

	ts := &testServer{
		health:        &mocks.HealthStore{},
		datasets:      &mocks.DatasetsStore{},
		resources:     &mocks.ResourcesStore{},
		organizations: &mocks.OrganizationsStore{},
		users:         &mocks.UsersStore{},
		watchers:      &mocks.WatchersStore{},
		schedules:     &mocks.SchedulesStore{},
		sources:       &mocks.DataSourcesStore{},
		harvest:       &mocks.HarvestStore{},
	}
	ts.Server = server.New(cfg, server.Stores{
		Health:        ts.health,
		Datasets:      ts.datasets,
		Resources:     ts.resources,
		Organizations: ts.organizations,
		Users:         ts.users,
		Watchers:      ts.watchers,
		Schedules:     ts.schedules,
		DataSources:   ts.sources,
		Harvest:       ts.harvest,
	}, tokens, zap.NewNop())
	RegisterAll(ts.Server)

	t.Cleanup(func() {
		ts.health.AssertExpectations(t)
		ts.datasets.AssertExpectations(t)
		ts.resources.AssertExpectations(t)
		ts.organizations.AssertExpectations(t)
		ts.users.AssertExpectations(t)
		ts.watchers.AssertExpectations(t)
		ts.schedules.AssertExpectations(t)
		ts.sources.AssertExpectations(t)
	})
	return ts
}

// login makes u the bearer of a fresh token and returns the header value
func (ts *testServer) login(t *testing.T, u *model.User) string {
	t.Helper()
	token, _, err := ts.Tokens.Issue(u)
	require.NoError(t, err)
	ts.users.On("FetchUser", u.ID).Return(u, nil).Maybe()
	return "Bearer " + token
}

func (ts *testServer) do(method, target, authorization, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/vnd.api+json")
	}
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	return rec
}

// response is a loosely typed JSON:API document
type response struct {
	Data     json.RawMessage          `json:"data"`
	Included []map[string]interface{} `json:"included"`
	Links    map[string]string        `json:"links"`
	Meta     map[string]interface{}   `json:"meta"`
	Errors   []struct {
		Status string `json:"status"`
		Detail string `json:"detail"`
		Source struct {
			Pointer   string `json:"pointer"`
			Parameter string `json:"parameter"`
		} `json:"source"`
	} `json:"errors"`
}

type object struct {
	ID            string                            `json:"id"`
	Type          string                            `json:"type"`
	Attributes    map[string]interface{}            `json:"attributes"`
	Relationships map[string]map[string]interface{} `json:"relationships"`
	Links         map[string]string                 `json:"links"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var doc response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
	return doc
}

func (r response) one(t *testing.T) object {
	t.Helper()
	var obj object
	require.NoError(t, json.Unmarshal(r.Data, &obj))
	return obj
}

func (r response) many(t *testing.T) []object {
	t.Helper()
	var objs []object
	require.NoError(t, json.Unmarshal(r.Data, &objs))
	return objs
}

var (
	testUser  = &model.User{ID: 7, Email: "jan@example.com", Role: model.UserRoleUser, IsActive: true}
	testAgent = &model.User{ID: 8, Email: "agent@example.com", Role: model.UserRoleAgent, IsActive: true}
	testAdmin = &model.User{ID: 9, Email: "admin@example.com", Role: model.UserRoleAdmin, IsActive: true}
)
