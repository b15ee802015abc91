package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts and parses an integer ID from a URL path.
// It removes the specified prefix and attempts to parse the remaining string as an int64.
//
// Parameters:
//   - path: The full URL path (e.g., "/corpora/123")
//   - prefix: The prefix to remove (e.g., "/corpora/")
//
// Returns:
//   - int64: The parsed ID
//   - error: ErrInvalidID if the ID is invalid or <= 0
//
// Example:
//
//	id, err := ExtractID("/corpora/123", "/corpora/")
//	// Returns: 123, nil
func ExtractID(path, prefix string) (int64, error) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ExtractNestedID extracts an integer ID sitting between a prefix and a
// suffix, for nested resource paths.
//
// Example:
//
//	id, err := ExtractNestedID("/corpora/123/documents", "/corpora/", "/documents")
//	// Returns: 123, nil
//
// The suffix must match exactly; extra path segments after it are invalid.
func ExtractNestedID(path, prefix, suffix string) (int64, error) {
	idStr := strings.TrimPrefix(path, prefix)
	if !strings.HasSuffix(idStr, suffix) {
		return 0, ErrInvalidID
	}
	idStr = strings.TrimSuffix(idStr, suffix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
