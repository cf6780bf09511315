package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"user-directory/internal/domain"
	"user-directory/internal/repository"
)

// UserHandler mantiene dependencias para el directorio de usuarios.
type UserHandler struct {
	logger *zap.Logger
	users  repository.UserRepository
}

// NewUserHandler crea una instancia de UserHandler.
func NewUserHandler(logger *zap.Logger, users repository.UserRepository) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// List maneja GET /api/users, ordenado del más reciente al más antiguo.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
		return
	}
	h.logger.Info("users fetched successfully", zap.Int("count", len(users)))
	c.JSON(http.StatusOK, users)
}

// Create maneja POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), domain.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	})
	if err != nil {
		h.logger.Error("failed to create user", zap.Error(err), zap.String("email", req.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}
	h.logger.Info("user created successfully", zap.Int64("id", user.ID), zap.String("email", user.Email))
	c.JSON(http.StatusOK, user)
}

// Get maneja GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.logger.Warn("user not found", zap.Int64("userId", id))
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to fetch user", zap.Int64("userId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update maneja PUT /api/users/:id. La fila ausente se detecta por el
// error del almacén, no con una consulta previa.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required,personname"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update user request", zap.Int64("userId", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": fieldIssues(err)})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id,
		strings.TrimSpace(req.Name),
		strings.ToLower(strings.TrimSpace(req.Email)),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to update user", zap.Int64("userId", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
		return
	}
	h.logger.Info("user updated successfully", zap.Int64("userId", id))
	c.JSON(http.StatusOK, user)
}

func parseUserID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
