package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront-bff/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope unless a response has
// already started.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				err := fmt.Errorf("panic: %v", v)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "panic", fmt.Sprint(v))
					logg.Error(ctx, "panic.recovered", err)
				}
				if rec.written() {
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "internal error"))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
