package testkit

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/liftstore/pkg/crypt"
	lshttp "github.com/shashiranjanraj/liftstore/pkg/http"
)

// Runner fires scenarios at Handler.
type Runner struct {
	Handler http.Handler

	// Secret signs bodies of scenarios with signBody set.
	Secret          string
	SignatureHeader string // default "X-Signature"

	// Rows counts a table's rows for expectedRows.
	Rows func(table string) (int64, error)
}

// Run loads one scenario file and runs it as a subtest.
func (r *Runner) Run(t *testing.T, path string) {
	t.Helper()
	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: %v", err)
	}
	t.Run(s.Name, func(t *testing.T) { r.RunScenario(t, s) })
}

// RunDir runs every *.json scenario file in dir, in name order.
func (r *Runner) RunDir(t *testing.T, dir string) {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}
	for _, path := range paths {
		r.Run(t, path)
	}
}

// RunScenario fires s.Repeat requests with outbound HTTP served by the
// scenario's mock steps, then checks rows and mock usage.
func (r *Runner) RunScenario(t *testing.T, s *Scenario) {
	t.Helper()

	body, err := s.Body()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	expected, err := s.Expected()
	if err != nil {
		t.Fatalf("[%s] read expected body: %v", s.Name, err)
	}

	mt := NewMockTransport(s)
	lshttp.DefaultClient.Transport = mt
	defer lshttp.ResetTransport()

	for i := 0; i < s.Repeat; i++ {
		rec := httptest.NewRecorder()
		r.Handler.ServeHTTP(rec, r.request(s, body))

		AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())
		AssertJSONSubset(t, s, expected, rec.Body.Bytes())
	}

	AssertRows(t, s, r.Rows)
	AssertMocksAllCalled(t, s, mt)
}

func (r *Runner) request(s *Scenario, body []byte) *http.Request {
	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.SignBody {
		header := r.SignatureHeader
		if header == "" {
			header = "X-Signature"
		}
		req.Header.Set(header, crypt.Sign(r.Secret, body))
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	return req
}
