package model

import "strings"

// Role classifies the party acting on the reservation engine.  It is
// derived from the current staff session and never persisted.
type Role string

const (
	RoleAnonymous Role = "ANONYMOUS" // public requester, no session
	RoleStaff     Role = "STAFF"     // authenticated staff member
)

// IsStaff reports whether the role carries staff permissions.
func (r Role) IsStaff() bool { return r == RoleStaff }

// StaffSession is the single authenticated staff identity of the
// process.  It is created on login, destroyed on logout and persisted
// so it survives a restart.
//
// Fields:
//
//	Email       – institutional email that passed the domain check.
//	DisplayName – name the staff member entered at login.
type StaffSession struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// Matches reports whether email identifies the session holder.  The
// comparison ignores case and surrounding whitespace.
func (s StaffSession) Matches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(s.Email), strings.TrimSpace(email))
}
