package models

import (
	"time"

	"gorm.io/gorm"
)

// Community represents a discussion community.
//
// MemberCount is a derived cache over community_memberships. It is maintained
// incrementally by atomic storage-level increments on join/leave and can be
// reconciled at any time with an exact recount; the membership table is
// always the source of truth.
type Community struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// CreatorID is nullable so the community survives creator deletion.
	CreatorID   *uint          `json:"creator_id"`
	Creator     *User          `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	IsPrivate   bool           `gorm:"not null;default:false" json:"is_private"`
	MemberCount int64          `gorm:"not null;default:0" json:"member_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}
