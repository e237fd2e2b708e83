// Package device derives a stable, non-cryptographic identifier for the
// machine the client runs on. The fingerprint only feeds "does this look
// like the same device" checks; it is low-entropy and collisions are
// tolerated (two devices sharing one are treated as the same device).
package device

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

// Snapshot holds the static attributes a fingerprint is derived from.
// Unavailable attributes stay at their zero value; they degrade uniqueness
// but never fail the derivation.
type Snapshot struct {
	UserAgent    string
	ScreenWidth  int
	ScreenHeight int
	Timezone     string
	Language     string
	Platform     string
	ColorDepth   int
	PixelDepth   int
}

// Reader supplies environment snapshots. Tests substitute a fixed fake so
// fingerprints are deterministic without a real host.
type Reader interface {
	Snapshot() Snapshot
}

// HostReader reads attributes from the running process environment.
type HostReader struct{}

func (HostReader) Snapshot() Snapshot {
	hostname, _ := os.Hostname()

	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}

	tz := os.Getenv("TZ")
	if tz == "" {
		tz = time.Local.String()
	}

	return Snapshot{
		UserAgent: fmt.Sprintf("chatclient (%s; %s; %s)", runtime.GOOS, runtime.GOARCH, hostname),
		Timezone:  tz,
		Language:  lang,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
