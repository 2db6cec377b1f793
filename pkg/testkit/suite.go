package testkit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/liftstore/pkg/router"
)

// ConfigEntry groups the scenarios of one named route in the master file.
type ConfigEntry struct {
	ServiceName       string            `json:"serviceName"`
	Route             string            `json:"route"`  // router name, e.g. "webhooks.payments"
	Params            map[string]string `json:"params"` // path parameters for the route
	FilePath          string            `json:"filePath"`
	ScenariosFileName string            `json:"scenariosFileName"`
}

// RunSuite runs every entry of the master file against rt. Request method
// and URL default to those of the entry's route, so fixtures survive path
// changes. Entries run in file order and share the runner's state.
func RunSuite(t *testing.T, masterPath string, rt *router.Router, runner *Runner) {
	t.Helper()

	abs, err := filepath.Abs(masterPath)
	if err != nil {
		t.Fatalf("testkit: resolve master config %q: %v", masterPath, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("testkit: read master config %q: %v", abs, err)
	}
	var entries []ConfigEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("testkit: parse master config %q: %v", abs, err)
	}

	if runner.Handler == nil {
		runner.Handler = rt.Handler()
	}
	methods := make(map[string]string)
	for _, route := range rt.Routes() {
		methods[route.Name] = route.Method
	}

	for _, entry := range entries {
		t.Run(entry.ServiceName, func(t *testing.T) {
			method, ok := methods[entry.Route]
			if !ok {
				t.Fatalf("testkit: no route named %q", entry.Route)
			}
			url, err := rt.URL(entry.Route, entry.Params)
			if err != nil {
				t.Fatalf("testkit: route %q: %v", entry.Route, err)
			}

			path := filepath.Join(filepath.Dir(abs), entry.FilePath, entry.ScenariosFileName)
			scenarios, err := LoadScenarioArray(path)
			if err != nil {
				t.Fatalf("testkit: %v", err)
			}
			for _, s := range scenarios {
				if s.RequestURL == "" {
					s.RequestURL = url
				}
				if s.RequestMethod == "" {
					s.RequestMethod = method
				}
				t.Run(s.Name, func(t *testing.T) { runner.RunScenario(t, s) })
			}
		})
	}
}
