package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"user-directory/internal/service"
)

const (
	loginPath     = "/login"
	registerPath  = "/register"
	dashboardPath = "/dashboard"
	callbackParam = "callbackUrl"

	authClaimsKey = "auth_claims"
)

// publicPrefixes clasifica rutas que no requieren token.
var publicPrefixes = []string{loginPath, registerPath, "/api/auth", "/healthz"}

// RouteGuard es el único punto de aplicación de autenticación: clasifica
// cada request como pública o protegida, valida el token y redirige a
// /login preservando la ruta original. Nunca responde 500: cualquier fallo
// de token degrada a redirect.
func RouteGuard(tokens *service.TokenService, cookies *CookieHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		claims, err := tokens.Verify(extractToken(c, cookies))
		authenticated := err == nil

		if isPublicPath(path) {
			if path == loginPath || path == registerPath {
				// Un callbackUrl que apunte al propio login formaría un
				// bucle: se colapsa al landing autenticado.
				if pointsAtLogin(c.Query(callbackParam)) {
					redirect(c, dashboardPath)
					return
				}
				// Usuario ya autenticado no vuelve a ver el login.
				if authenticated {
					redirect(c, dashboardPath)
					return
				}
			}
			c.Next()
			return
		}

		if !authenticated {
			redirect(c, loginRedirectTarget(c.Request.URL))
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene los claims validados desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// extractToken prefiere el header Authorization y cae a la cookie.
func extractToken(c *gin.Context, cookies *CookieHelper) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return cookies.GetSessionToken(c)
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// loginRedirectTarget arma /login?callbackUrl=<ruta original con query>.
func loginRedirectTarget(u *url.URL) string {
	original := u.Path
	if u.RawQuery != "" {
		original += "?" + u.RawQuery
	}
	if pointsAtLogin(original) {
		original = dashboardPath
	}
	return loginPath + "?" + callbackParam + "=" + url.QueryEscape(original)
}

func pointsAtLogin(callback string) bool {
	callback = strings.TrimSpace(callback)
	return callback == loginPath || strings.HasPrefix(callback, loginPath+"?") || strings.HasPrefix(callback, loginPath+"/")
}

func redirect(c *gin.Context, target string) {
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
