package middlewares

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	// jwtSecret signs and verifies session tokens. Before using any
	// middleware, make sure Setup has been called.
	jwtSecret []byte
)

// Setup initializes all package scoped variables that are needed to perform
// middleware functionalities. This function must be called before any
// middleware is used.
func Setup() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
	return nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// JWT fetches the session token from the "token" query parameter or the
// Authorization bearer header, validates it and stores the subject (the
// viewer's user id) in the "sub" request header for downstream handlers. It
// aborts with 401 on a missing or invalid token.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			auth := c.GetHeader("Authorization")
			if len(auth) > len("Bearer ") && auth[:len("Bearer ")] == "Bearer " {
				token = auth[len("Bearer "):]
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "empty session token"})
			c.Abort()
			return
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return jwtSecret, nil
		})
		if err != nil || !parsed.Valid || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid session token"})
			c.Abort()
			return
		}

		// Successfully validated the token, expose the viewer's id to
		// handlers the same way the upstream gateway would.
		c.Request.Header.Del("token")
		c.Request.Header.Set("sub", claims.Subject)

		c.Next()
	}
}

// IssueToken mints a session token for the user id, used by the seeder and
// by tests.
func IssueToken(userId string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userId},
	})
	return token.SignedString(jwtSecret)
}
