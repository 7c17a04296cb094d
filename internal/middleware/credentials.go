package middleware

import (
	"strings"

	"github.com/vervelak/lastwar-alliance-manager/internal/backend"

	"github.com/gin-gonic/gin"
)

// csrfCookie is the name gorilla/csrf stores its token under.
const csrfCookie = "_gorilla_csrf"

// Credentials copies the operator's backend cookies and Authorization
// header. The console's own cookies stay behind.
func Credentials(c *gin.Context) backend.Credentials {
	var parts []string
	for _, ck := range c.Request.Cookies() {
		if ck.Name == SessionCookie || ck.Name == csrfCookie {
			continue
		}
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return backend.Credentials{
		Cookie:        strings.Join(parts, "; "),
		Authorization: c.GetHeader("Authorization"),
	}
}
