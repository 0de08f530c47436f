package entity

type Note struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	UserID    string `gorm:"not null;index"` // References: users(id)
	TenantID  string `gorm:"not null;index"`
	Tags      string `gorm:"not null"` // lowercased, space-separated
	IsPrivate bool   `gorm:"not null"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`
}

func (n *Note) OwnedBy(user *User) bool {
	return n.UserID == user.ID
}
