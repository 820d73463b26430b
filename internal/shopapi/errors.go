package shopapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-bff/pkg/auth"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/safe"
)

// envelope keys that carry a message rather than field errors
var messageKeys = []string{"message", "detail", "error", "non_field_errors", "errors"}

// normalizeError turns a non-2xx response into the single error shape used
// downstream: code, message and optional per-field messages.
func normalizeError(status int, raw []byte) *pkgerrors.Error {
	var body any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = nil
		}
	}

	code := codeForStatus(status)
	fields := fieldErrors(body)
	message := messageFrom(body)
	if message == "" {
		message = firstFieldMessage(fields)
	}
	if message == "" {
		message = pkgerrors.MetadataFor(code).PublicMessage
	}

	apiErr := pkgerrors.New(code, message).WithStatus(status).WithFields(fields)
	if status == http.StatusUnauthorized {
		apiErr = apiErr.WithDetails(map[string]any{"redirect": auth.LoginPath})
	}
	return apiErr
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case status == http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusConflict:
		return pkgerrors.CodeConflict
	case status == http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case status >= 400 && status < 500:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeUpstream
	}
}

func messageFrom(body any) string {
	if s, ok := body.(string); ok {
		return strings.TrimSpace(s)
	}
	obj := safe.Map(body)
	if obj == nil {
		if arr := safe.Array(body, nil); len(arr) > 0 {
			return safe.String(arr[0])
		}
		return ""
	}
	for _, key := range messageKeys {
		switch v := obj[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case []any:
			if len(v) > 0 && safe.String(v[0]) != "" {
				return safe.String(v[0])
			}
		case map[string]any:
			if msg := safe.String(v["message"]); msg != "" {
				return msg
			}
		}
	}
	return ""
}

// fieldErrors reads DRF-style {"field": ["msg", ...]} bodies, also nested under
// "errors" or "fields".
func fieldErrors(body any) pkgerrors.FieldErrors {
	obj := safe.Map(body)
	if obj == nil {
		return nil
	}
	for _, nestedKey := range []string{"errors", "fields"} {
		if nested := safe.Map(obj[nestedKey]); nested != nil {
			obj = nested
			break
		}
	}

	fields := pkgerrors.FieldErrors{}
	for key, value := range obj {
		if isMessageKey(key) {
			continue
		}
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				if msg := safe.String(item); msg != "" {
					fields[key] = append(fields[key], msg)
				}
			}
		case string:
			if v != "" && key != "code" && key != "status" {
				fields[key] = []string{v}
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func isMessageKey(key string) bool {
	for _, candidate := range messageKeys {
		if candidate == key {
			return true
		}
	}
	return false
}

func firstFieldMessage(fields pkgerrors.FieldErrors) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys[0] + ": " + fields[keys[0]][0]
}
