package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/izzah/storefront/pkg/logger"
)

// ClientIDHeader carries the anonymous shopper identity.
const ClientIDHeader = "X-Client-Id"

const maxClientIDLen = 128

// ClientID resolves the shopper identity from X-Client-Id, minting one when
// absent or unusable, and echoes it on the response.
func ClientID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := strings.TrimSpace(r.Header.Get(ClientIDHeader))
			if !safeToken(clientID, maxClientIDLen) {
				clientID = uuid.NewString()
			}
			w.Header().Set(ClientIDHeader, clientID)

			ctx := WithClientID(r.Context(), clientID)
			if logg != nil {
				ctx = logg.WithClientID(ctx, clientID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
