package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/utils"
)

// Recover turns a panic in next into the generic 500 response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logging.FromContext(r.Context(), logging.NopLogger()).
					Error("panic serving request", "panic", v, "stack", string(debug.Stack()))
				utils.ResponseWithError(w, http.StatusInternalServerError, "Server internal errors", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
