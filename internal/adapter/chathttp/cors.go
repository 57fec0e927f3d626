package chathttp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORS allows browser clients on the configured domains. An absent or "null"
// origin (file:// access during development) gets a wildcard.
func CORS(allowedDomains []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			header := c.Response().Header()

			switch {
			case origin == "" || origin == "null":
				header.Set(echo.HeaderAccessControlAllowOrigin, "*")
			case originAllowed(origin, allowedDomains):
				header.Set(echo.HeaderAccessControlAllowOrigin, origin)
			}

			if c.Request().Method == http.MethodOptions {
				header.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
				header.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type")
				header.Set(echo.HeaderAccessControlMaxAge, "86400")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

func originAllowed(origin string, domains []string) bool {
	for _, domain := range domains {
		if strings.Contains(origin, domain) {
			return true
		}
	}
	return false
}
