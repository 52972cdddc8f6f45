package handler

import (
	"crypto/subtle"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/config"
	"github.com/bitfantasy/nimo-sign/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler 认证处理器。使用配置中的引导账号签发JWT
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录并签发访问令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Auth.Password)) == 1
	if !userOK || !passOK {
		Unauthorized(c, "Invalid username or password")
		return
	}

	expire := h.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = 24 * time.Hour
	}

	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: req.Username,
		Name:   req.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.Username,
			Issuer:    h.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.cfg.JWT.Secret))
	if err != nil {
		InternalError(c, "sign token: "+err.Error())
		return
	}

	Success(c, gin.H{
		"access_token": tokenString,
		"token_type":   "Bearer",
		"expires_in":   int(expire.Seconds()),
	})
}

// Me 获取当前用户
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, gin.H{
		"user_id": GetUserID(c),
		"name":    c.GetString("user_name"),
	})
}
