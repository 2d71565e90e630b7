package models

import (
	"time"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:varchar(500);not null" json:"description"`
	Status      string     `gorm:"type:varchar(50);not null" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	OwnerUserID *uint64    `gorm:"index" json:"owner_user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Owner *User `gorm:"foreignKey:OwnerUserID" json:"owner,omitempty"`
}
