package globals

type contextKey string

// UserIDKey carries the authenticated caller's id through the request
// context; set by middleware.Auth, read by handlers.
const UserIDKey contextKey = "userId"
