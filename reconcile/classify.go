package reconcile

import (
	"errors"
	"strings"
)

// Classification is the verdict on a failure response.
type Classification int

const (
	// GenuineFailure means the action did not happen; roll back.
	GenuineFailure Classification = iota

	// AlreadyInTargetState means the server reports the state the action
	// was trying to reach already holds; keep the speculative change.
	AlreadyInTargetState
)

// Structured error codes, for servers that emit them. The string-matching
// vocabulary below is the compatibility shim for servers that only report
// freeform message text; it has exactly one implementation so there is one
// place to fix when server messages change.
const (
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeAlreadyLiked      = "ALREADY_LIKED"
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
)

// Coder is implemented by transport errors that carry a structured code.
type Coder interface {
	ErrorCode() string
}

// codesByKind maps each action kind to the codes that mean its target
// state already holds.
var codesByKind = map[Kind][]string{
	KindRegister:      {CodeAlreadyRegistered},
	KindLike:          {CodeAlreadyLiked},
	KindDeletePost:    {CodeNotFound},
	KindDeleteComment: {CodeNotFound},
	KindUnregister:    {CodeNotFound},
}

// vocabularyByKind holds the per-kind duplicate phrases, matched
// case-insensitively as substrings. Scoping by kind matters: "already
// registered" must reclassify a Register action and nothing else.
var vocabularyByKind = map[Kind][]string{
	KindRegister:      {"already registered", "đã đăng ký", "already exists", "duplicate"},
	KindLike:          {"already liked", "duplicate like"},
	KindUnlike:        {"not liked"},
	KindDeletePost:    {"not found", "does not exist", "already deleted"},
	KindDeleteComment: {"not found", "does not exist", "already deleted"},
	KindUnregister:    {"not registered", "not found"},
}

// Classify decides whether an error means "this already happened" for the
// given action kind. Anything it does not explicitly recognize is a
// GenuineFailure; the classifier never suppresses an unknown error.
func Classify(kind Kind, err error) Classification {
	if err == nil {
		return GenuineFailure
	}

	var coded Coder
	if errors.As(err, &coded) {
		code := coded.ErrorCode()
		for _, c := range codesByKind[kind] {
			if code == c {
				return AlreadyInTargetState
			}
		}
		if code != "" {
			// A structured code we don't recognize for this kind is
			// authoritative; don't fall through to message sniffing.
			return GenuineFailure
		}
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range vocabularyByKind[kind] {
		if strings.Contains(msg, phrase) {
			return AlreadyInTargetState
		}
	}
	return GenuineFailure
}
