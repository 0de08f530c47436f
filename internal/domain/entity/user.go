package entity

// Role is the closed set of roles a user can hold inside a tenant.
type Role string

const (
	// RoleAdmin can invite users and manage the tenant subscription.
	RoleAdmin Role = "admin"

	// RoleMember can only manage their own notes.
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is the general basic structure of all users across the platform.
//
// Subscription mirrors the owning tenant's tier and is rewritten
// whenever the tenant changes plans, so authorization checks read the
// current entitlement without a second lookup.
type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null"`
	TenantID     string `gorm:"not null;index"`
	Subscription Tier   `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
