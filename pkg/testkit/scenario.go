// Package testkit drives HTTP API tests from JSON scenario files.
//
// A scenario names the request to fire, the status and (partial) body to
// expect, the rows each table should hold afterwards and the outbound HTTP
// calls to intercept:
//
//	testdata/
//	  scenarios.json        master file: one entry per named route
//	  webhooks.json         array of scenarios for that route
//	  order_created.json    request body referenced by requestFileName
//
// Scenarios are run by a Runner, either one file at a time (Run, RunDir) or
// grouped under named routes of a pkg/router Router (RunSuite).
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario describes one API test case.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request. Method and URL may be left empty inside a suite, which fills
	// them from the route the scenarios are grouped under.
	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline alternative to requestFileName
	Headers         map[string]string `json:"headers"`

	// SignBody sets the runner's signature header to the HMAC of the body.
	SignBody bool `json:"signBody"`
	// Repeat fires the same request several times, e.g. a redelivered
	// webhook. Every response must match the expectations.
	Repeat int `json:"repeat"`

	ExpectedCode       int `json:"expectedCode"`
	ExpectedStatusCode int `json:"expectedStatusCode"` // alias
	// ExpectedBody must be contained in the response: objects match on the
	// keys they list, arrays element by element.
	ExpectedBody     json.RawMessage `json:"expectedBody"`
	ResponseFileName string          `json:"responseFileName"` // file form of ExpectedBody
	// ExpectedRows maps table name to row count after the last request.
	ExpectedRows map[string]int64 `json:"expectedRows"`

	// IsMockRequired fails any outbound HTTP call without a matching step.
	IsMockRequired  bool       `json:"isMockRequired"`
	NetUtilMockStep []MockStep `json:"netUtilMockStep"`

	dir string
}

// MockStep intercepts one kind of outbound call. Only "httprequest" steps
// exist today; they are served by MockTransport.
type MockStep struct {
	Method      string `json:"method"`
	IsMock      bool   `json:"isMock"`
	MatchURL    string `json:"matchUrl"`    // prefix; empty matches anything
	MatchMethod string `json:"matchMethod"` // empty matches any verb
	// ExpectBody must be contained in the outbound JSON body.
	ExpectBody json.RawMessage `json:"expectBody"`
	ReturnData MockReturnData  `json:"returnData"`
}

type MockReturnData struct {
	StatusCode int             `json:"statusCode"` // default 200
	Body       json.RawMessage `json:"body"`
}

// LoadScenario reads one scenario object from path.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	s.dir = filepath.Dir(abs)
	if err := s.normalise(true); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	return &s, nil
}

// LoadScenarioArray reads an array of scenarios from path. Request method
// and URL are optional here; the suite supplies them.
func LoadScenarioArray(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	for i, s := range scenarios {
		s.dir = filepath.Dir(abs)
		if err := s.normalise(false); err != nil {
			return nil, fmt.Errorf("testkit: %q item %d: %w", abs, i, err)
		}
	}
	return scenarios, nil
}

func (s *Scenario) normalise(standalone bool) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if standalone && s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if standalone && s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	if s.RequestFileName != "" && len(s.RequestBody) > 0 {
		return fmt.Errorf("set requestFileName or requestBody, not both")
	}
	if s.Repeat < 1 {
		s.Repeat = 1
	}
	for i, step := range s.NetUtilMockStep {
		if step.Method != "httprequest" {
			return fmt.Errorf("netUtilMockStep[%d]: unsupported method %q", i, step.Method)
		}
	}
	return nil
}

// Body returns the request body bytes, exactly as stored on disk.
func (s *Scenario) Body() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	if s.RequestFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.RequestFileName))
}

// Expected returns the expected response fragment, or nil.
func (s *Scenario) Expected() ([]byte, error) {
	if len(s.ExpectedBody) > 0 {
		return s.ExpectedBody, nil
	}
	if s.ResponseFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.ResponseFileName))
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
