package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/lib/pq"

	"github.com/otwartedane/mcod/pkg/auth"
	"github.com/otwartedane/mcod/pkg/model"
)

var placeholder = regexp.MustCompile(`\{(organization|dataset|resource):([^}]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	ids          map[string]uint
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:  tc,
		ids: make(map[string]uint),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.resetDatabase()
	})

	// Fixtures
	sc.Step(`^the portal is running$`, s.thePortalIsRunning)
	sc.Step(`^a published organization "([^"]*)" titled "([^"]*)"$`, s.aPublishedOrganization)
	sc.Step(`^a (published|draft) dataset "([^"]*)" titled "([^"]*)" in organization "([^"]*)"$`, s.aDataset)
	sc.Step(`^the dataset "([^"]*)" has a published "([^"]*)" resource "([^"]*)"$`, s.theDatasetHasAResource)
	sc.Step(`^an? (user|agent|admin) account "([^"]*)" with password "([^"]*)"$`, s.anAccount)

	// Requests
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequest)
	sc.Step(`^I send a (POST|PATCH) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)

	// Responses
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain (\d+) "([^"]*)" objects?$`, s.theResponseShouldContainObjects)
	sc.Step(`^the response meta "([^"]*)" should be (\d+)$`, s.theResponseMetaShouldBe)
	sc.Step(`^the response attribute "([^"]*)" should be "([^"]*)"$`, s.theResponseAttributeShouldBe)
	sc.Step(`^the response should include a token$`, s.theResponseShouldIncludeAToken)
	sc.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, s.theResponseHeaderShouldContain)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
}

func (s *StepsContext) resetDatabase() error {
	s.response = nil
	s.responseBody = nil
	s.authToken = ""
	s.ids = make(map[string]uint)

	return s.tc.DB.Exec(`TRUNCATE
		organizations, categories, tags, data_sources, data_source_imports,
		datasets, dataset_categories, dataset_tags, resources,
		users, watchers, subscriptions, notifications,
		schedules, user_schedules, user_schedule_items, audit_messages
		RESTART IDENTITY CASCADE`).Error
}

// Fixtures

func (s *StepsContext) thePortalIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aPublishedOrganization(slug, title string) error {
	org := &model.Organization{
		Slug:            slug,
		Title:           title,
		InstitutionType: model.InstitutionTypeState,
		Status:          model.PublicationStatusPublished,
	}
	if err := s.tc.DB.Create(org).Error; err != nil {
		return err
	}
	s.ids["organization:"+slug] = org.ID
	return nil
}

func (s *StepsContext) aDataset(status, slug, title, orgSlug string) error {
	orgID, ok := s.ids["organization:"+orgSlug]
	if !ok {
		return fmt.Errorf("unknown organization %q", orgSlug)
	}
	st, err := model.PublicationStatusString(status)
	if err != nil {
		return err
	}

	ds := &model.Dataset{
		Slug:            slug,
		Title:           title,
		OrganizationID:  orgID,
		LicenseCode:     "CC0 1.0",
		UpdateFrequency: "yearly",
		Status:          st,
		HVDCategories:   pq.StringArray{},
	}
	if err := s.tc.DB.Create(ds).Error; err != nil {
		return err
	}
	s.ids["dataset:"+slug] = ds.ID
	return nil
}

func (s *StepsContext) theDatasetHasAResource(slug, format, title string) error {
	datasetID, ok := s.ids["dataset:"+slug]
	if !ok {
		return fmt.Errorf("unknown dataset %q", slug)
	}

	res := &model.Resource{
		DatasetID: datasetID,
		Title:     title,
		Link:      "https://example.com/" + slug + "." + strings.ToLower(format),
		Format:    strings.ToLower(format),
		Type:      model.ResourceTypeFile,
		Status:    model.PublicationStatusPublished,
	}
	if err := s.tc.DB.Create(res).Error; err != nil {
		return err
	}
	s.ids["resource:"+title] = res.ID
	return nil
}

func (s *StepsContext) anAccount(role, email, password string) error {
	r, err := model.UserRoleString(role)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.tc.DB.Create(&model.User{
		Email:    email,
		Password: hash,
		Role:     r,
		IsActive: true,
	}).Error
}

// Requests

func (s *StepsContext) iLogIn(email, password string) error {
	body := fmt.Sprintf(`{"data":{"type":"user","attributes":{"email":%q,"password":%q}}}`, email, password)
	if err := s.do(http.MethodPost, "/auth/login", body); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		s.authToken = ""
		return nil
	}

	var doc struct {
		Meta struct {
			Token string `json:"token"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	s.authToken = doc.Meta.Token
	return nil
}

func (s *StepsContext) iSendARequest(method, path string) error {
	return s.do(method, path, "")
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, body.Content)
}

func (s *StepsContext) do(method, path, body string) error {
	path, err := s.expand(path)
	if err != nil {
		return err
	}
	body, err = s.expand(body)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/vnd.api+json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// expand replaces {dataset:slug} style references with database ids
func (s *StepsContext) expand(text string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		id, ok := s.ids[parts[1]+":"+parts[2]]
		if !ok {
			missing = m
			return m
		}
		return strconv.FormatUint(uint64(id), 10)
	})
	if missing != "" {
		return "", fmt.Errorf("unknown reference %s", missing)
	}
	return out, nil
}

// Responses

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

type document struct {
	Data json.RawMessage        `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

type object struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Attributes map[string]interface{} `json:"attributes"`
}

func (s *StepsContext) document() (*document, error) {
	var doc document
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not a JSON document: %w: %s", err, string(s.responseBody))
	}
	return &doc, nil
}

func (s *StepsContext) theResponseShouldContainObjects(count int, typ string) error {
	doc, err := s.document()
	if err != nil {
		return err
	}
	var objects []object
	if err := json.Unmarshal(doc.Data, &objects); err != nil {
		return fmt.Errorf("response data is not a list: %w", err)
	}

	found := 0
	for _, o := range objects {
		if o.Type == typ {
			found++
		}
	}
	if found != count || len(objects) != count {
		return fmt.Errorf("expected %d %q objects, got %d of %d: %s", count, typ, found, len(objects), string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseMetaShouldBe(key string, expected int) error {
	doc, err := s.document()
	if err != nil {
		return err
	}
	v, ok := doc.Meta[key].(float64)
	if !ok {
		return fmt.Errorf("meta %q missing or not a number: %s", key, string(s.responseBody))
	}
	if int(v) != expected {
		return fmt.Errorf("expected meta %q to be %d, got %v", key, expected, v)
	}
	return nil
}

func (s *StepsContext) theResponseAttributeShouldBe(name, expected string) error {
	doc, err := s.document()
	if err != nil {
		return err
	}
	var obj object
	if err := json.Unmarshal(doc.Data, &obj); err != nil {
		return fmt.Errorf("response data is not a single object: %w", err)
	}
	got, ok := obj.Attributes[name]
	if !ok {
		return fmt.Errorf("attribute %q not found in %s", name, string(s.responseBody))
	}
	if fmt.Sprint(got) != expected {
		return fmt.Errorf("expected attribute %q to be %q, got %q", name, expected, fmt.Sprint(got))
	}
	return nil
}

func (s *StepsContext) theResponseShouldIncludeAToken() error {
	if s.authToken == "" {
		return fmt.Errorf("no token in response: %s", string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseHeaderShouldContain(name, expected string) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	got := s.response.Header.Get(name)
	if !strings.Contains(got, expected) {
		return fmt.Errorf("expected header %s to contain %q, got %q", name, expected, got)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	expected, err := s.expand(expected)
	if err != nil {
		return err
	}
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}
