package registry

import "strings"

// notFoundError indicates no model id matched the user's fragment.
type notFoundError struct {
	fragment  string
	available []string
}

func (e notFoundError) Error() string {
	if len(e.available) == 0 {
		return "no model matches " + e.fragment + " (no models found)"
	}
	return "no model matches " + e.fragment + "; available: " + strings.Join(e.available, ", ")
}

// IsNotFound reports whether err indicates an unknown model fragment.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// ambiguousError indicates the fragment matched more than one model id.
type ambiguousError struct {
	fragment   string
	candidates []string
}

func (e ambiguousError) Error() string {
	return "model " + e.fragment + " is ambiguous: " + strings.Join(e.candidates, ", ")
}

// IsAmbiguous reports whether err indicates a fragment matching several models.
func IsAmbiguous(err error) bool {
	_, ok := err.(ambiguousError)
	return ok
}
