package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/modelstore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// POST /api/auth/register
func Register(db *gorm.DB, tokens *Tokens, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Todos los campos son requeridos"})
			return
		}
		email := normalizeEmail(req.Email)

		if _, err := models.FindUserByEmail(db, email); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El email ya está registrado"})
			return
		} else if !errors.Is(err, models.ErrUserNotFound) {
			log.Error("❌ User lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			log.Error("❌ Password hashing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Error("❌ Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}

		respondWithToken(c, tokens, log, http.StatusCreated, user)
	}
}

// POST /api/auth/login
func Login(db *gorm.DB, tokens *Tokens, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email y contraseña son requeridos"})
			return
		}

		user, err := models.FindUserByEmail(db, normalizeEmail(req.Email))
		if err != nil {
			if !errors.Is(err, models.ErrUserNotFound) {
				log.Error("❌ User lookup failed", zap.Error(err))
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
			return
		}
		if !CheckPassword(user.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
			return
		}

		respondWithToken(c, tokens, log, http.StatusOK, *user)
	}
}

// GET /api/auth/me
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := models.FindUserByID(db, c.GetString(ContextUserID))
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}
		c.JSON(http.StatusOK, models.UserResponse{User: *user})
	}
}

func respondWithToken(c *gin.Context, tokens *Tokens, log *zap.Logger, status int, user models.User) {
	token, err := tokens.Issue(user)
	if err != nil {
		log.Error("❌ Token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
		return
	}
	c.JSON(status, models.AuthResponse{User: user, Token: token})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
