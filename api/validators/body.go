package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/validation"
)

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes a JSON request body into dest and runs the struct
// validation rules. Unknown fields are rejected.
func DecodeJSONBody(r *http.Request, dest any) error {
	if err := decode(r, dest, false); err != nil {
		return err
	}
	return validation.Struct(dest)
}

// DecodeJSON only decodes; for payloads the domain service normalizes and
// validates itself.
func DecodeJSON(r *http.Request, dest any) error {
	return decode(r, dest, false)
}

// DecodeOptionalJSON is DecodeJSON that accepts an empty body.
func DecodeOptionalJSON(r *http.Request, dest any) error {
	return decode(r, dest, true)
}

func decode(r *http.Request, dest any, optional bool) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}
