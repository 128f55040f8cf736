package hubapi

import "fmt"

// Error is a structured API failure. Code carries the server-side machine
// code from the GraphQL extensions block when present.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// ErrorCode returns the machine-readable failure code, "" when the server
// sent none.
func (e *Error) ErrorCode() string { return e.Code }
