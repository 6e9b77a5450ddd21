package store

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// newAutoID returns a 16-hex-digit id from a cryptographic source —
// spec.md §3's single-document auto-id case. uuid.New() already wraps
// crypto/rand; taking its first 8 bytes gives the required width
// without hand-rolling a random source.
func newAutoID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}

// batchPrefix derives a short, monotonically-varying token from the
// wall clock for a multi-document insert's sequential ids.
func batchPrefix() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}

func batchID(prefix string, k int) string {
	return prefix + "_" + strconv.Itoa(k)
}

// nowISO returns the current time as an ISO-8601 timestamp.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// idOf extracts and string-coerces a document's id field, if present
// and non-empty.
func idOf(doc map[string]interface{}) (string, bool) {
	v, ok := doc["id"]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return "", false
	}
}
