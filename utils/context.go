package utils

import (
	"context"

	"tixplate/globals"
)

func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
