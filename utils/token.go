package authUtils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/SindhuAbhirami/civic-watch/models"
)

var ErrInvalidToken = errors.New("invalid token")

func secret() ([]byte, error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return []byte(secretStr), nil
}

// GenerateToken signs a session token for the actor that expires after ttl.
func GenerateToken(actor models.Summary, ttl time.Duration) (string, error) {
	jwtSecret, err := secret()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  strconv.FormatInt(actor.ID, 10),
		"role":     string(actor.Role),
		"username": actor.Username,
		"exp":      time.Now().Add(ttl).Unix(),
	})

	return token.SignedString(jwtSecret)
}

// ParseToken verifies an HS256 token and returns the session it carries.
func ParseToken(tokenString string) (models.Session, error) {
	jwtSecret, err := secret()
	if err != nil {
		return models.Session{}, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, ErrInvalidToken
	}
	idStr, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || !models.Role(role).Valid() {
		return models.Session{}, ErrInvalidToken
	}
	return models.Session{ActorID: id, Role: models.Role(role), Username: username}, nil
}
