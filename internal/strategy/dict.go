package strategy

import "fmt"

// MergePolicy governs how DictMerge resolves key collisions.
type MergePolicy int

const (
	// Overwrite lets a later context's value replace the existing one.
	Overwrite MergePolicy = iota

	// KeepFirst retains the first value encountered and discards later ones.
	KeepFirst

	// CombineLists collects colliding values into a list. An existing
	// non-list value is coerced into a single-element list first; an
	// incoming list is flattened one level, a non-list is appended as one
	// element.
	CombineLists

	// ErrorOnConflict fails the merge on any second write to a key,
	// naming the colliding key.
	ErrorOnConflict
)

func (p MergePolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case KeepFirst:
		return "keep_first"
	case CombineLists:
		return "combine_lists"
	case ErrorOnConflict:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMergePolicy converts a configuration string into a MergePolicy.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch s {
	case "overwrite", "":
		return Overwrite, nil
	case "keep_first":
		return KeepFirst, nil
	case "combine_lists":
		return CombineLists, nil
	case "error":
		return ErrorOnConflict, nil
	default:
		return Overwrite, fmt.Errorf("unknown merge policy %q", s)
	}
}

// DictMerge combines map-shaped contexts into a single map, resolving key
// collisions according to its policy. Every context must be a
// map[string]any.
type DictMerge struct {
	policy MergePolicy
}

// NewDictMerge creates a DictMerge strategy with the given collision policy.
func NewDictMerge(policy MergePolicy) *DictMerge {
	return &DictMerge{policy: policy}
}

// Combine merges the contexts in list order into one map. It fails on empty
// input, on any element that is not a map[string]any (naming the offending
// index), and on key collision under ErrorOnConflict (naming the key).
func (s *DictMerge) Combine(contexts []any) (any, error) {
	if len(contexts) == 0 {
		return nil, ErrNoContexts
	}

	maps := make([]map[string]any, len(contexts))
	for i, c := range contexts {
		m, ok := c.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("context at index %d is not a map: %T", i, c)
		}
		maps[i] = m
	}

	result := make(map[string]any)
	for _, m := range maps {
		for key, value := range m {
			existing, ok := result[key]
			if !ok {
				result[key] = value
				continue
			}

			switch s.policy {
			case Overwrite:
				result[key] = value
			case KeepFirst:
				// Keep the existing value.
			case CombineLists:
				result[key] = appendValues(existing, value)
			case ErrorOnConflict:
				return nil, fmt.Errorf("key collision: %q already present in merged result", key)
			default:
				return nil, fmt.Errorf("unknown merge policy %d", s.policy)
			}
		}
	}
	return result, nil
}

// appendValues coerces existing into a list if needed and appends incoming,
// flattening it one level when it is itself a list.
func appendValues(existing, incoming any) []any {
	list, ok := existing.([]any)
	if !ok {
		list = []any{existing}
	}
	if items, ok := incoming.([]any); ok {
		return append(list, items...)
	}
	return append(list, incoming)
}
