package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionTokenCookie es la cookie que transporta el token de sesión.
const SessionTokenCookie = "session-token"

// CookieHelper administra la cookie de autenticación.
type CookieHelper struct {
	secure bool
	maxAge int
}

// NewCookieHelper crea un helper; secure solo fuera de desarrollo.
func NewCookieHelper(secure bool, ttl time.Duration) *CookieHelper {
	return &CookieHelper{
		secure: secure,
		maxAge: int(ttl.Seconds()),
	}
}

// SetSessionToken fija la cookie HTTP-only con SameSite=Lax en la raíz.
func (h *CookieHelper) SetSessionToken(c *gin.Context, token string) {
	h.setCookie(c, token, h.maxAge)
}

// ClearSessionToken elimina la cookie del cliente.
func (h *CookieHelper) ClearSessionToken(c *gin.Context) {
	h.setCookie(c, "", -1)
}

// GetSessionToken lee el token desde la cookie; vacío si no existe.
func (h *CookieHelper) GetSessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionTokenCookie)
	if err != nil {
		return ""
	}
	return token
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionTokenCookie,
		value,
		maxAge,
		"/",
		"",
		h.secure,
		true, // httpOnly, siempre para cookies de autenticación
	)
}
