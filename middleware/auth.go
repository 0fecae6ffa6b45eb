package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"papertrade/config"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

const sessionTTL = 24 * time.Hour

// SessionAuth gates routes behind an active login session. The cookie holds
// an HS256 JWT; the matching Redis record must still exist, so logout can
// revoke a session before the token expires. Unauthenticated requests are
// redirected to the login page.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			redirectToLogin(c)
			return
		}

		jwtSecret := os.Getenv("JWT_SECRET")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			redirectToLogin(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			redirectToLogin(c)
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				redirectToLogin(c)
				return
			}
		}

		sid, _ := claims["sid"].(string)
		uid, uidOK := claims["user_id"].(float64)
		if sid == "" || !uidOK {
			redirectToLogin(c)
			return
		}

		// The Redis record disappears on logout or expiry.
		if err := config.Rdb.Get(c.Request.Context(), sessionKey(sid)).Err(); err != nil {
			redirectToLogin(c)
			return
		}

		c.Set("user_id", uint(uid))
		c.Next()
	}
}

// NewSession mints a signed session token for the user and stores its
// server-side record in Redis.
func NewSession(ctx context.Context, userID uint) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	sid := hex.EncodeToString(buf)

	claims := jwt.MapClaims{
		"user_id": userID,
		"sid":     sid,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := config.Rdb.Set(ctx, sessionKey(sid), userID, sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return tokenString, nil
}

// DestroySession revokes the session the token identifies. A malformed or
// already-dead token is not an error; logout is idempotent.
func DestroySession(ctx context.Context, tokenString string) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if sid, ok := claims["sid"].(string); ok && sid != "" {
			config.Rdb.Del(ctx, sessionKey(sid))
		}
	}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}
