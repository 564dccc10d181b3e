package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"medeasy/internal/config"
)

// CookieName is the HTTP-only cookie carrying the access token.
const CookieName = "token"

// ContextEmailKey is where VerifyToken stores the authenticated email.
const ContextEmailKey = "email"

// VerifyToken authenticates the request from the token cookie and/or the
// Authorization header, depending on the configured transport. All failure
// modes (missing token, bad signature, expired) answer with the same 401
// body so callers cannot distinguish them.
func VerifyToken(secret, transport string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ExtractToken(c, transport)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		email, err := ParseEmail(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		c.Set(ContextEmailKey, email)
		c.Next()
	}
}

// ExtractToken pulls the raw token out of the request. With the "both"
// transport the cookie wins; the bearer header is the fallback.
func ExtractToken(c *gin.Context, transport string) string {
	if transport == config.TransportCookie || transport == config.TransportBoth {
		if cookie, err := c.Cookie(CookieName); err == nil && strings.TrimSpace(cookie) != "" {
			return strings.TrimSpace(cookie)
		}
	}

	if transport == config.TransportBearer || transport == config.TransportBoth {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			return ""
		}
		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	return ""
}

// ParseEmail verifies the token signature and expiry and returns the email
// claim.
func ParseEmail(raw, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("email claim missing")
	}

	return email, nil
}
