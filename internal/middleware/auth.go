package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/pokecatch/backend/internal/auth"
	"github.com/ayush/pokecatch/backend/internal/httpjson"
	"github.com/ayush/pokecatch/backend/internal/models"
)

// TokenVerifier decodes a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireAuth is middleware that validates the bearer token and injects the
// caller's identity into the request context. Every failure is answered
// with the same 401 body.
func RequireAuth(tokens TokenVerifier, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Debugw("missing or malformed authorization header", "path", r.URL.Path)
				httpjson.Error(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
				return
			}

			id, err := tokens.Verify(token)
			if err != nil {
				logger.Debugw("token rejected", "path", r.URL.Path, "err", err)
				httpjson.Error(w, http.StatusUnauthorized, models.ErrUnauthorized.Error())
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
