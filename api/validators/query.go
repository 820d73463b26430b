package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded by [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "Must be a whole number.")
	}
	if value < min || value > max {
		return 0, queryError(key, fmt.Sprintf("Must be between %d and %d.", min, max))
	}
	return value, nil
}

// ParseQueryBool reads an optional boolean filter; nil means the parameter was absent.
func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, queryError(key, "Must be true or false.")
	}
	return &value, nil
}

func queryError(key, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
		WithFields(pkgerrors.FieldErrors{key: {msg}})
}
