// Package testutil holds helpers shared by tests that exercise real HTTP
// exchanges through recorded cassettes.
package testutil

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"
	"gopkg.in/dnaeon/go-vcr.v2/recorder"
)

// ReplayClient returns an HTTP client that replays the named cassette from
// testdata/fixtures. Set VCR_MODE=record to re-record against the live
// answering service instead. The recorder is stopped on test cleanup.
func ReplayClient(t *testing.T, cassetteName string) *http.Client {
	t.Helper()

	mode := recorder.ModeReplaying
	if os.Getenv("VCR_MODE") == "record" {
		mode = recorder.ModeRecording
	}

	r, err := recorder.NewAsMode(filepath.Join("testdata", "fixtures", cassetteName), mode, nil)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}

	// Request bodies carry the session id, which varies per run; match on
	// method and URL only.
	r.SetMatcher(func(req *http.Request, i cassette.Request) bool {
		return req.Method == i.Method && req.URL.String() == i.URL
	})

	t.Cleanup(func() {
		if err := r.Stop(); err != nil {
			t.Errorf("failed to stop recorder: %v", err)
		}
	})

	return &http.Client{Transport: r}
}
