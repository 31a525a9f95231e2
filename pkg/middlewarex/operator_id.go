package middlewarex

import (
	"net/http"

	"dealflow/pkg/contextx"
)

const headerNameOperatorID = "X-Operator-Id"

// OperatorID puts the calling operator into the request context. Requests
// without the header are attributed to "anonymous".
func OperatorID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operatorID := r.Header.Get(headerNameOperatorID)
		if operatorID == "" {
			operatorID = "anonymous"
		}

		ctx := contextx.WithOperatorID(r.Context(), contextx.OperatorID(operatorID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
