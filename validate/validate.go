// Package validate runs the per-route field checks before a handler is
// allowed to touch the database.
package validate

import (
	"github.com/go-playground/validator/v10"

	"tixplate/apperr"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct checks a bound request against its validate tags. Any failed
// predicate short-circuits the route with a 422.
func Struct(req interface{}) *apperr.Error {
	if err := v.Struct(req); err != nil {
		return apperr.BadInput("Invalid inputs passed, please check your data")
	}
	return nil
}
