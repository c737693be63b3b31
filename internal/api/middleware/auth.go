package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/expense-ledger/internal/config"
)

const (
	// AuthUserKey is the key used to store the authenticated username in the context
	AuthUserKey = "auth_user"

	bearerPrefix = "Bearer "
)

// IssueToken signs a new HS256 token for the given username
func IssueToken(cfg *config.AuthConfig, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(cfg.TokenTTL).Unix(),
	})
	return token.SignedString([]byte(cfg.JWTSecret))
}

// RequireAuth validates the Bearer token on protected routes. Invalid or
// expired tokens always produce the standard 401 envelope so clients can key
// their forced-logout behavior off the status code alone.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "missing auth token")
			return
		}

		tokenStr := strings.TrimPrefix(header, bearerPrefix)
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid claims")
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			abortUnauthorized(c, "subject missing")
			return
		}

		c.Set(AuthUserKey, sub)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
