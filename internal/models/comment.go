package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments may reply to another
// comment via ParentID; deleting the parent detaches replies rather than
// removing them.
type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	Post     Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	UserID   uint     `gorm:"not null" json:"user_id"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	ParentID *uint    `json:"parent_id,omitempty"`
	Parent   *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
	Content  string   `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
