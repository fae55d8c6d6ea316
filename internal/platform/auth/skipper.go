package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists route paths that bypass authentication: infrastructure
// endpoints (health checks) and the doctor directory/slot reads that patients
// browse before authenticating. Keys are registered route patterns.
var publicPaths = map[string]bool{
	"/health":                          true,
	"/health/db":                       true,
	"/api/v1/doctors":                  true,
	"/api/v1/doctors/:id":              true,
	"/api/v1/doctors/:id/availability": true,
	"/api/v1/doctors/:id/slots":        true,
}

// AuthSkipper returns true for requests whose route should skip
// authentication. Pass it to JWTMiddleware or DevAuthMiddleware so public
// endpoints remain reachable without a bearer token.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given route pattern bypasses auth.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
