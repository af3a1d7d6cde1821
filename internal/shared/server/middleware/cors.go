package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Allow-Methods":     strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}, ","),
	"Access-Control-Allow-Headers":     "Content-Type, " + requestIDHeader,
	"Access-Control-Expose-Headers":    requestIDHeader + ", Retry-After",
	"Access-Control-Max-Age":           "600",
}

// CORS answers for the listed origins and short-circuits preflight requests.
// A "*" entry allows any origin; credentials are then not advertised.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	anyOrigin := false
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			anyOrigin = true
		default:
			allowed[o] = true
		}
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && (anyOrigin || allowed[origin]) {
			h := c.Writer.Header()
			for k, v := range corsHeaders {
				h.Set(k, v)
			}
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if anyOrigin && !allowed[origin] {
				h.Del("Access-Control-Allow-Credentials")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
