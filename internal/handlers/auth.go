package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"medeasy/internal/middleware"
)

type tokenRequest struct {
	Email string `json:"email" binding:"required"`
}

// IssueToken handles POST /jwt. It signs a long-lived access token for the
// given email and sets it as an HTTP-only cookie; the token is also
// returned in the body for clients using the bearer transport.
func IssueToken(jwtSecret string, tokenTTL time.Duration, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := normalizeEmail(req.Email)
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		signed, err := signToken(email, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		setTokenCookie(c, signed, int(tokenTTL.Seconds()), cookieSecure)

		log.Println("[AUTH] [INFO] token issued for:", email)
		c.JSON(http.StatusOK, gin.H{"success": true, "token": signed})
	}
}

// Logout handles GET /logout by expiring the token cookie.
func Logout(cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		setTokenCookie(c, "", -1, cookieSecure)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func signToken(email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func setTokenCookie(c *gin.Context, value string, maxAge int, secure bool) {
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", secure, true)
}
