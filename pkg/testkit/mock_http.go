package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport answers outbound requests from a scenario's httprequest
// steps. Install it on pkg/http's DefaultClient; the runner does this for
// every scenario.
type MockTransport struct {
	mu      sync.Mutex
	steps   []httpMockEntry
	require bool
	errs    []error
}

type httpMockEntry struct {
	step      MockStep
	callCount int
}

func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.IsMockRequired}
	for _, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" && step.IsMock {
			mt.steps = append(mt.steps, httpMockEntry{step: step})
		}
	}
	return mt
}

// RoundTrip serves the first step matching the request's method and URL.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()

	for i := range mt.steps {
		entry := &mt.steps[i]
		if !matches(req, entry.step) {
			continue
		}
		entry.callCount++
		if len(entry.step.ExpectBody) > 0 {
			if diffs := containsJSON(entry.step.ExpectBody, body); len(diffs) > 0 {
				mt.errs = append(mt.errs, fmt.Errorf("outbound %s %s body:\n%s",
					req.Method, req.URL, strings.Join(diffs, "\n")))
			}
		}
		return buildHTTPResponse(req, entry.step.ReturnData), nil
	}

	if mt.require {
		err := fmt.Errorf("testkit: unexpected outbound call %s %s", req.Method, req.URL)
		mt.errs = append(mt.errs, err)
		return nil, err
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Request:    req,
	}, nil
}

// Errors lists body mismatches, unexpected calls and steps never called.
func (mt *MockTransport) Errors() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	errs := append([]error(nil), mt.errs...)
	for _, e := range mt.steps {
		if e.callCount == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock %s %q was never called", e.step.MatchMethod, e.step.MatchURL))
		}
	}
	return errs
}

func matches(req *http.Request, step MockStep) bool {
	if step.MatchMethod != "" && !strings.EqualFold(step.MatchMethod, req.Method) {
		return false
	}
	return step.MatchURL == "" || strings.HasPrefix(req.URL.String(), step.MatchURL)
}

func buildHTTPResponse(req *http.Request, rd MockReturnData) *http.Response {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	body := []byte(rd.Body)
	// a JSON string is sent as its text, anything else verbatim
	var text string
	if json.Unmarshal(body, &text) == nil {
		body = []byte(text)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
}
