package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const adminTokenTTL = 2 * time.Hour

type adminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func generateAdminToken(secret, username string) (string, error) {
	now := time.Now()
	claims := adminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseAdminToken(secret, tokenStr string) (*adminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &adminClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// tokenHandler exchanges the configured admin credentials for a bearer token.
func tokenHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(deps.AdminUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(deps.AdminPassword)) == 1
		if !userOK || !passOK {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		token, err := generateAdminToken(deps.JWTSecret, req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(adminTokenTTL.Seconds())})
	}
}

// adminAuth guards the admin group with a bearer token check.
func adminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := parseAdminToken(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("adminUser", claims.Username)
		c.Next()
	}
}
