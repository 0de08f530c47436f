package entity

// Tenant is an isolated organization. Its tier is the source of truth
// for the subscription; user rows carry a denormalized copy.
type Tenant struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Subscription Tier   `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}
