package core

import (
	"errors"
	"strings"
)

// ErrNotFound is the sentinel for lookups that matched no row.
var ErrNotFound = errors.New("not found")

// IsNotFoundError reports whether err represents a missing entity, either
// via the ErrNotFound sentinel or a "not found" message from older call sites.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
