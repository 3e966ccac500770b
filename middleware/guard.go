package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	canopyauth "github.com/canopyhq/canopyauth"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal injected by [Guard] for the
// current request.
func PrincipalFromContext(ctx context.Context) (*canopyauth.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*canopyauth.Principal)
	return principal, ok
}

// Guard validates the request's session and, when roles are given, enforces
// that the principal holds one of them. The token is read from the session
// cookie first, then from an Authorization Bearer header. Rejections carry no
// detail beyond the status code: 401 for anything unauthenticated, 403 for a
// live session with the wrong role.
func Guard(engine *canopyauth.Engine, roles ...canopyauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := sessionToken(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principal, err := engine.Authorize(r.Context(), token, roles...)
			if err != nil {
				if errors.Is(err, canopyauth.ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken extracts the raw session token. The cookie name matches the
// login envelope default; deployments with a renamed cookie can still pass
// the token as a Bearer header.
func sessionToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
