package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret string

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

// GenerateJWT issues a token bound to a session record; "sid" is the session
// token the middleware resolves on every request.
func GenerateJWT(sessionToken string, userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sid":     sessionToken,
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 168).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	return token, nil
}

// SessionToken extracts the session id claim from a verified token.
func SessionToken(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return "", fmt.Errorf("Invalid token claims")
	}

	sid, ok := claims["sid"].(string)

	if !ok || sid == "" {
		return "", fmt.Errorf("Invalid session id in token claims")
	}

	return sid, nil
}
