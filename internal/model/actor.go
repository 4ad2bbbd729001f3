package model

// Role is the identity role carried in the access token.
type Role string

const (
    RoleGuest Role = "GUEST"
    RoleOwner Role = "OWNER"
    RoleAdmin Role = "ADMIN"
)

// CancelActor records who cancelled a booking.
type CancelActor string

const (
    CancelledByGuest  CancelActor = "guest"
    CancelledByOwner  CancelActor = "owner"
    CancelledByAdmin  CancelActor = "admin"
    CancelledBySystem CancelActor = "system"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
    ID   uint64
    Role Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
