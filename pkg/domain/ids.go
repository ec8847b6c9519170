package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TraceID identifies one logical lineage of a probabilistic-program
// execution. Forking a trace into an independent lineage mints a new ID for
// the child; the parent keeps its own.
type TraceID string

// Site names a single sampling point within a trace. Together with a
// TraceID it forms the coordination key every store operation is scoped by.
type Site string

// NewTraceID mints a fresh opaque lineage identifier.
func NewTraceID() TraceID {
	return TraceID(uuid.NewString())
}

// TraceKey derives the composite store key for a (trace, site) pair.
// Trace blobs, wake slots and message slots are all keyed by it.
func TraceKey(id TraceID, site Site) string {
	return string(id) + ":" + string(site)
}

// ParseTraceKey splits a composite key back into its trace and site parts.
func ParseTraceKey(key string) (TraceID, Site, error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed trace key %q", key)
	}
	return TraceID(parts[0]), Site(parts[1]), nil
}
