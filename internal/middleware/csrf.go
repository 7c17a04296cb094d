package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const CSRFField = "csrf_token"

// CSRF protects the console's form posts. Plain-HTTP deployments
// (secure=false) are marked so the origin check does not require TLS.
func CSRF(key []byte, secure bool, trustedOrigins []string) gin.HandlerFunc {
	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.FieldName(CSRFField),
		csrf.TrustedOrigins(trustedOrigins),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}
		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
