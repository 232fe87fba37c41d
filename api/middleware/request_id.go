package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/izzah/storefront/pkg/logger"
)

// RequestIDHeader correlates one request across logs and the response.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 64

// RequestID keeps a well-formed inbound request id or mints a new one.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if !safeToken(reqID, maxRequestIDLen) {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// safeToken accepts [A-Za-z0-9_-] up to maxLen. Tokens end up in log fields
// and kv keys.
func safeToken(value string, maxLen int) bool {
	if value == "" || len(value) > maxLen {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
