package fetcher

import (
	"sort"
	"strings"
)

// Pair is one name/value entry in an ordered header or query collection.
// A nil Value marks the entry for removal when merged: the key disappears
// from the result even if the other side carries a value for it.
type Pair struct {
	Name  string
	Value *string
}

// NewPair returns a Pair carrying a value.
func NewPair(name, value string) Pair {
	return Pair{Name: name, Value: &value}
}

// RemovePair returns a Pair that deletes the named key on merge.
func RemovePair(name string) Pair {
	return Pair{Name: name}
}

// Pairs is an ordered collection of name/value entries.
type Pairs []Pair

// PairsFromMap converts a map into Pairs, ordered by key for determinism.
func PairsFromMap(m map[string]string) Pairs {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Pairs, 0, len(names))
	for _, name := range names {
		out = append(out, NewPair(name, m[name]))
	}
	return out
}

// Get returns the value of the first entry with the exact name, or def when
// the name is absent or marked for removal.
func (p Pairs) Get(name, def string) string {
	for _, pr := range p {
		if pr.Name == name {
			if pr.Value == nil {
				return def
			}
			return *pr.Value
		}
	}
	return def
}

// Has reports whether an entry with the exact name carries a value.
func (p Pairs) Has(name string) bool {
	for _, pr := range p {
		if pr.Name == name {
			return pr.Value != nil
		}
	}
	return false
}

// Map flattens the collection into a plain map, dropping removal markers.
// First entry wins for duplicate names.
func (p Pairs) Map() map[string]string {
	out := make(map[string]string, len(p))
	for _, pr := range p {
		if pr.Value == nil {
			continue
		}
		if _, ok := out[pr.Name]; ok {
			continue
		}
		out[pr.Name] = *pr.Value
	}
	return out
}

// Fold selects the key comparison used when merging collections.
type Fold int

const (
	// FoldExact compares names byte for byte. Query parameters use this.
	FoldExact Fold = iota

	// FoldCaseInsensitive compares names case-insensitively. Headers use
	// this.
	FoldCaseInsensitive
)

func (f Fold) key(name string) string {
	if f == FoldCaseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// Merge combines two ordered collections. Entries from incoming take
// priority over base on key collision; entries whose value is nil are
// removed from the result entirely, even when only base carried the key.
// The result keeps first-seen order per unique key, incoming first.
//
// Merge is pure and idempotent: Merge(Merge(a, b), b) == Merge(a, b).
func Merge(base, incoming Pairs, fold Fold) Pairs {
	out := make(Pairs, 0, len(base)+len(incoming))
	seen := make(map[string]struct{}, len(base)+len(incoming))

	for _, src := range []Pairs{incoming, base} {
		for _, pr := range src {
			k := fold.key(pr.Name)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if pr.Value == nil {
				continue
			}
			out = append(out, pr)
		}
	}
	return out
}
