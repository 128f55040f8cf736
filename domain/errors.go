package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyContent indicates the user submitted an empty post or comment.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrNoEvent indicates an action that needs an event context but has none.
	ErrNoEvent = errors.New("no event selected")
)
