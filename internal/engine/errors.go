package engine

import "fmt"

// Code is the machine-readable tag of a rejected request.
type Code string

const (
	CodeUnknownScene      Code = "UNKNOWN_SCENE"
	CodeRequirementNotMet Code = "REQUIREMENT_NOT_MET"
	CodeNotInCombat       Code = "NOT_IN_COMBAT"
	CodeAbilityOnCooldown Code = "ABILITY_ON_COOLDOWN"
	CodeNoResource        Code = "NO_RESOURCE"
	CodeInCombat          Code = "IN_COMBAT"
	CodeUnknownChoice     Code = "UNKNOWN_CHOICE"
	CodeUnknownAction     Code = "UNKNOWN_ACTION"
	CodeStaleChoice       Code = "STALE_CHOICE"
)

// Error is a recoverable domain error. A request rejected with an Error
// left the session untouched.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrUnknownScene      = &Error{Code: CodeUnknownScene, Message: "unknown scene"}
	ErrRequirementNotMet = &Error{Code: CodeRequirementNotMet, Message: "requirement not met"}
	ErrNotInCombat       = &Error{Code: CodeNotInCombat, Message: "not in combat"}
	ErrAbilityOnCooldown = &Error{Code: CodeAbilityOnCooldown, Message: "ability on cooldown"}
	ErrNoResource        = &Error{Code: CodeNoResource, Message: "no resource"}
	ErrInCombat          = &Error{Code: CodeInCombat, Message: "in combat"}
	ErrUnknownChoice     = &Error{Code: CodeUnknownChoice, Message: "unknown choice"}
	ErrUnknownAction     = &Error{Code: CodeUnknownAction, Message: "unknown action"}
	ErrStaleChoice       = &Error{Code: CodeStaleChoice, Message: "stale choice"}
)

func newError(code Code, metadata map[string]string, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Metadata: metadata,
	}
}
