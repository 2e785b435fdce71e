package registry

import (
	"strings"

	"llamactl/pkg/types"
)

// Resolve maps a user-supplied name fragment to exactly one model. An exact
// id match wins; otherwise the fragment must match a unique model id as a
// case-insensitive substring.
func Resolve(models []types.Model, fragment string) (types.Model, error) {
	frag := strings.TrimSpace(fragment)
	if frag == "" {
		return types.Model{}, notFoundError{fragment: fragment, available: IDs(models)}
	}
	for _, m := range models {
		if m.ID == frag {
			return m, nil
		}
	}
	lower := strings.ToLower(frag)
	var matches []types.Model
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.ID), lower) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return types.Model{}, notFoundError{fragment: fragment, available: IDs(models)}
	case 1:
		return matches[0], nil
	default:
		return types.Model{}, ambiguousError{fragment: fragment, candidates: IDs(matches)}
	}
}
