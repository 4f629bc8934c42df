package auth

import "context"

type contextKey struct{}

// Session identifies the signed-in household for the current request. It is
// loaded by the auth middleware at request start and cleared implicitly when
// the request ends; login and logout are the only places that create or
// delete the backing session row.
type Session struct {
	HouseholdID   int64
	HouseholdCode string
	SessionID     int64
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

func HouseholdID(ctx context.Context) int64 {
	s, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return s.HouseholdID
}

func HouseholdCode(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.HouseholdCode
}
