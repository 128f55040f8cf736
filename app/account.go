package app

import "context"

// Profile identifies the authenticated user.
type Profile struct {
	ID       string
	Username string
	Name     string
}

// AccountService provides information about the authenticated user.
type AccountService interface {
	// CurrentUser returns the authenticated user's profile. The viewer id
	// is what makes like state viewer-relative.
	CurrentUser(ctx context.Context) (Profile, error)
}
