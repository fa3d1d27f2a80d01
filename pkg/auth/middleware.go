package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/webdashhq/webdash/pkg/logger"
	"github.com/webdashhq/webdash/pkg/response"
)

// Middleware returns a chi-compatible middleware that requires a valid
// bearer token on every request. Verified claims are stored in the request
// context; failures get a 401 with a generic message.
func Middleware(verifier TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	if verifier == nil {
		panic("auth: token verifier is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.JSON(w, http.StatusUnauthorized, map[string]string{"error": ErrMissingToken.Error()})
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				log.DebugContext(r.Context(), "token verification failed",
					logger.Error(err), logger.Component("auth"))
				response.JSON(w, http.StatusUnauthorized, map[string]string{"error": ErrInvalidToken.Error()})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
