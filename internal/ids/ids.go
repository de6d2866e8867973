package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the record identifiers handed out by this service.
const (
	PrefixDisposition = "DISP"
	PrefixProgress    = "PROG"
	PrefixLog         = "LOG"
	PrefixUser        = "USER"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a time-derived, lexicographically sortable identifier carrying
// the given prefix, e.g. "DISP-01J8ZQM5Y3...". An empty prefix yields a bare ULID.
func New(prefix string) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	entropyMu.Unlock()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
