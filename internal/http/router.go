package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	cookies *CookieHelper,
	authH *AuthHandler,
	userH *UserHandler,
) *gin.Engine {
	registerValidators()

	r := gin.New()

	// Middlewares básicos más el guard: todo request pasa por la
	// clasificación pública/protegida antes de cualquier handler.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), RouteGuard(tokens, cookies))

	r.GET("/healthz", Health)
	r.GET(loginPath, LoginPage)
	r.GET(registerPath, RegisterPage)
	r.GET(dashboardPath, DashboardPage)

	api := r.Group("/api")
	api.Use(jsonContentTypeMiddleware())

	auth := api.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/signup", authH.Signup)
	auth.POST("/oauth", authH.OAuth)
	auth.POST("/logout", authH.Logout)

	users := api.Group("/users")
	users.GET("", userH.List)
	users.POST("", userH.Create)
	users.GET("/:id", userH.Get)
	users.PUT("/:id", userH.Update)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
