package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
)

// ParseQueryUint reads an optional unsigned integer query parameter. A
// missing or blank value yields zero.
func ParseQueryUint(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return uint(value), nil
}

// QueryFlag reports whether a query parameter holds a truthy value. "1" and
// "true" count, everything else does not.
func QueryFlag(r *http.Request, key string) bool {
	raw := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(key)))
	return raw == "1" || raw == "true"
}

// ParsePathID reads a positive integer path segment.
func ParsePathID(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "identifier must be a positive integer")
	}
	return uint(value), nil
}
