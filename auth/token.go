package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tixplate/models"
)

const tokenTTL = time.Hour

// NewToken signs the credential the frontend presents on authenticated
// routes. Payload: {userId, email, imageUrl}, 1 hour expiry.
func NewToken(secret []byte, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.ID.Hex(),
		"email":    user.Email,
		"imageUrl": user.Image.URL,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
