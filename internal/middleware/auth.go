package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthenticatedKey is set in the context once a bearer token was accepted.
const AuthenticatedKey = "authenticated"

// Auth checks the Authorization header against the configured API tokens.
// An empty token list disables the check.
func Auth(tokens []string) gin.HandlerFunc {
	accepted := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			accepted = append(accepted, []byte(t))
		}
	}

	return func(c *gin.Context) {
		if len(accepted) == 0 {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="orgdesk"`)
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			return
		}

		for _, want := range accepted {
			if subtle.ConstantTimeCompare([]byte(token), want) == 1 {
				c.Set(AuthenticatedKey, true)
				c.Next()
				return
			}
		}

		if log := GetLogger(c); log != nil {
			log.Warn("Rejected API token", map[string]interface{}{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			})
		}
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid bearer token")
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
