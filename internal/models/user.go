package models

import "time"

// User roles. "user" is the role of accounts created by an admin and
// bound to that admin's quota; "customer" is the public-signup role.
const (
	RoleCustomer   = "customer"
	RoleManaged    = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// User statuses. Deletion is a status, never a row removal.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
	StatusDeleted = "deleted"
)

// User represents an account: a customer, a managed user under an admin,
// an admin, or the super admin. Secrets never serialize to JSON.
type User struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string  `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Email           string  `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password        string  `json:"-" gorm:"type:varchar(255)"`
	Role            string  `json:"role" gorm:"index;type:varchar(20);default:customer"`
	Status          string  `json:"status" gorm:"index;type:varchar(20);default:active"`
	ManagerID       *string `json:"managerId" gorm:"index;type:varchar(36)"`
	MaxManagedUsers int     `json:"maxManagedUsers" gorm:"default:1"`

	PasswordResetOTP          string     `json:"-" gorm:"type:varchar(6)"`
	PasswordResetOTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsPrivileged reports whether the user may act on resources beyond
// their own (admin or superAdmin).
func (u *User) IsPrivileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsManaged reports whether the user operates under a managing admin.
func (u *User) IsManaged() bool {
	return u.ManagerID != nil && *u.ManagerID != ""
}

// OwnerID resolves the admin id that owns resources created by this
// user: the user itself when it is an admin, otherwise its manager.
func (u *User) OwnerID() string {
	if u.Role == RoleAdmin {
		return u.ID
	}
	if u.IsManaged() {
		return *u.ManagerID
	}
	return u.ID
}
