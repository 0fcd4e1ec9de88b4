package models

import "time"

// ReactionType enumerates the supported post reactions.
type ReactionType string

const (
	ReactionLike      ReactionType = "like"
	ReactionLove      ReactionType = "love"
	ReactionInsight   ReactionType = "insight"
	ReactionDisagree  ReactionType = "disagree"
	ReactionSurprised ReactionType = "surprised"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionInsight, ReactionDisagree, ReactionSurprised:
		return true
	}
	return false
}

// PostReaction records a user's reaction to a post.
// The (post, user) pair is unique: reacting again overwrites the type in
// place rather than creating a second row. Rows are hard-deleted on removal.
type PostReaction struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	PostID       uint         `gorm:"not null;uniqueIndex:idx_post_user_reaction" json:"post_id"`
	Post         Post         `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_post_user_reaction" json:"user_id"`
	User         User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ReactionType ReactionType `gorm:"type:varchar(20);not null" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PostReaction) TableName() string {
	return "post_reactions"
}
