// Package membership describes a user's relation to a Telegram group and
// decides which relations grant posting rights.
package membership

import "context"

// Status is a user's standing in a group as reported by the chat service.
type Status int

// Known statuses. StatusUnknown is the zero value so an unset status never
// authorizes anybody.
const (
	StatusUnknown Status = iota
	StatusNotMember
	StatusLeft
	StatusBanned
	StatusRestricted
	StatusMember
	StatusAdministrator
	StatusOwner
)

var statusNames = map[Status]string{
	StatusUnknown:       "unknown",
	StatusNotMember:     "not_member",
	StatusLeft:          "left",
	StatusBanned:        "banned",
	StatusRestricted:    "restricted",
	StatusMember:        "member",
	StatusAdministrator: "administrator",
	StatusOwner:         "owner",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Oracle looks up a user's current status in a group. Implementations issue
// exactly one query per call and must return an error instead of guessing a
// status when the lookup fails.
type Oracle interface {
	MemberStatus(ctx context.Context, groupID, userID int64) (Status, error)
}

// IsAuthorized reports whether a user with the given status may relay posts.
// Only current members, administrators and owners of the resident group
// qualify.
func IsAuthorized(s Status) bool {
	switch s {
	case StatusMember, StatusAdministrator, StatusOwner:
		return true
	default:
		return false
	}
}
