package domain

import (
	"fmt"
	"strings"
)

// Pair links a parent lineage to a child lineage derived from it at a given
// site. Pairs are written exactly once per branch event and never mutated;
// they exist for external lineage reconstruction, not for the protocol.
type Pair struct {
	Parent TraceID `json:"parent"`
	Child  TraceID `json:"child"`
	Site   Site    `json:"site"`
}

// Key derives the deterministic store key for this lineage record.
func (p Pair) Key() string {
	return string(p.Parent) + "|" + string(p.Child) + "|" + string(p.Site)
}

// ParsePairKey reverses Pair.Key.
func ParsePairKey(key string) (Pair, error) {
	parts := strings.SplitN(key, "|", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Pair{}, fmt.Errorf("malformed pair key %q", key)
	}
	return Pair{
		Parent: TraceID(parts[0]),
		Child:  TraceID(parts[1]),
		Site:   Site(parts[2]),
	}, nil
}
