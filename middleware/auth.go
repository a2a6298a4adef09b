package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"tixplate/apperr"
	"tixplate/globals"
	"tixplate/utils"
)

// Auth verifies bearer credentials and attaches the caller's id to the
// request context.
type Auth struct {
	Secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{Secret: []byte(secret)}
}

// Required rejects the request with 403 on any credential failure:
// missing header, malformed token, bad signature or expiry. OPTIONS
// requests pass through untouched so preflight never needs a token.
func (a *Auth) Required(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if r.Method == http.MethodOptions {
			next(w, r, ps)
			return
		}

		userID, err := a.verify(r)
		if err != nil {
			utils.RespondWithError(w, apperr.Unauthorized("Authentication failed!"))
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, userID)
		next(w, r.WithContext(ctx), ps)
	}
}

func (a *Auth) verify(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
