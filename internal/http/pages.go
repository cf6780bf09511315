package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Páginas mínimas que sirven como destinos de los redirects del guard.

const loginHTML = `<!doctype html>
<html>
<head><title>Login</title></head>
<body>
<h1>Sign in</h1>
<form method="post" action="/api/auth/login">
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Sign in</button>
</form>
<p><a href="/register">Create an account</a></p>
</body>
</html>`

const registerHTML = `<!doctype html>
<html>
<head><title>Register</title></head>
<body>
<h1>Create account</h1>
<form method="post" action="/api/auth/signup">
  <input type="text" name="name" placeholder="Name" required>
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password" minlength="8" required>
  <button type="submit">Sign up</button>
</form>
<p><a href="/login">Already have an account</a></p>
</body>
</html>`

const dashboardHTML = `<!doctype html>
<html>
<head><title>Dashboard</title></head>
<body>
<h1>Dashboard</h1>
<p>Signed in. The user directory lives under <code>/api/users</code>.</p>
</body>
</html>`

func LoginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginHTML))
}

func RegisterPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(registerHTML))
}

func DashboardPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}

// Health maneja GET /healthz.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
