package middlewarex

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"dealflow/pkg/errcodes"
	"dealflow/pkg/httpx/reply"
)

type authError struct {
	code    failure.ErrorCode
	message string
}

func (e authError) Error() string {
	return e.message
}

func (e authError) ErrorCode() failure.ErrorCode {
	return e.code
}

// BearerAuth rejects requests whose Authorization header does not carry
// token: 401 without a bearer token, 403 with a wrong one. An empty token
// disables the check.
func BearerAuth(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || got == "" {
				reply.Error(r.Context(), w, authError{code: errcodes.Unauthorized, message: "missing bearer token"})
				return
			}

			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				reply.Error(r.Context(), w, authError{code: errcodes.Forbidden, message: "invalid bearer token"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
