package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Roles []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Tasks []Task     `gorm:"foreignKey:OwnerUserID" json:"-"`
}

// UserRole is one role name attached to a user. A user may hold any number
// of roles; the pair (user, role) is unique.
type UserRole struct {
	UserID uint64 `gorm:"primarykey" json:"user_id"`
	Role   string `gorm:"primarykey;type:varchar(50)" json:"role"`
}

// RoleNames flattens the associated role rows into plain strings.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return names
}
