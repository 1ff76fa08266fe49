// Package access holds the single capability predicate shared by every
// mutating entry point. Callers ask Can (or Check) instead of comparing role
// strings inline.
package access

import "errors"

type Role string
type Action string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	ActionRead   Action = "read"
	ActionAsk    Action = "ask"
	ActionAnswer Action = "answer"
	ActionVote   Action = "vote"
	ActionAccept Action = "accept"
	ActionAdmin  Action = "admin"
)

var (
	ErrInactive = errors.New("account is inactive")
	ErrRole     = errors.New("role does not permit this action")
)

// Actor is the identity a request acts as.
type Actor struct {
	ID       uint
	Role     Role
	IsActive bool
}

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleUser:
		return action != ActionAdmin
	case RoleGuest:
		return action == ActionRead
	default:
		return false
	}
}

// Check is Can plus the active-account requirement. Inactive accounts may
// still read.
func Check(actor Actor, action Action) error {
	if !actor.IsActive && action != ActionRead {
		return ErrInactive
	}
	if !Can(actor.Role, action) {
		return ErrRole
	}
	return nil
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleGuest, RoleUser, RoleAdmin:
		return Role(role)
	default:
		return RoleGuest
	}
}
