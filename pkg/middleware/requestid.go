package middleware

import (
	"net/http"

	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or generates one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderXRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, rid)
		next.ServeHTTP(w, r.WithContext(utils.SetRequestIDContext(r.Context(), rid)))
	})
}
