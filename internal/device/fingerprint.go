package device

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// fingerprintLen bounds the storage cost of a persisted fingerprint.
const fingerprintLen = 16

// Fingerprint derives a short printable identifier from a snapshot.
// The same snapshot always yields the same fingerprint; no time-varying
// input is consulted.
func Fingerprint(snap Snapshot) string {
	screen := ""
	if snap.ScreenWidth > 0 && snap.ScreenHeight > 0 {
		screen = strconv.Itoa(snap.ScreenWidth) + "x" + strconv.Itoa(snap.ScreenHeight)
	}

	parts := []string{
		snap.UserAgent,
		screen,
		snap.Timezone,
		snap.Language,
		snap.Platform,
		depthString(snap.ColorDepth),
		depthString(snap.PixelDepth),
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(strings.Join(parts, "-")))

	var b strings.Builder
	b.Grow(fingerprintLen)
	for _, r := range encoded {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == fingerprintLen {
				break
			}
		}
	}
	return b.String()
}

func depthString(d int) string {
	if d <= 0 {
		return ""
	}
	return strconv.Itoa(d)
}
