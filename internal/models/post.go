package models

import (
	"time"

	"gorm.io/gorm"
)

// PostType classifies the content of a post.
type PostType string

const (
	PostTypeText              PostType = "text"
	PostTypeLink              PostType = "link"
	PostTypeImage             PostType = "image"
	PostTypeVideo             PostType = "video"
	PostTypeFinancialAnalysis PostType = "financial_analysis"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeText, PostTypeLink, PostTypeImage, PostTypeVideo, PostTypeFinancialAnalysis:
		return true
	}
	return false
}

// Visibility is the per-post access class controlling who may read it.
type Visibility string

const (
	// VisibilityPublic posts are readable by everyone, including anonymous.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate posts are readable only by their owner.
	VisibilityPrivate Visibility = "private"
	// VisibilityCommunity posts are readable by members of the referenced community.
	VisibilityCommunity Visibility = "community"
)

// Valid reports whether v is a known visibility class.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityCommunity:
		return true
	}
	return false
}

// Post represents a post authored by a user, optionally scoped to a community.
type Post struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	// CommunityID is nullable; the post survives community deletion.
	CommunityID *uint      `gorm:"index" json:"community_id,omitempty"`
	Community   *Community `gorm:"foreignKey:CommunityID;constraint:OnDelete:SET NULL" json:"community,omitempty"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	MediaURLs   []string   `gorm:"serializer:json" json:"media_urls"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	PostType    PostType   `gorm:"type:varchar(20);not null" json:"post_type"`
	Visibility  Visibility `gorm:"type:varchar(20);not null;default:'public';index" json:"visibility"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// ReactionsCount is not persisted; computed at query time
	ReactionsCount int `gorm:"->" json:"reactions_count"`
	// MyReaction is the requesting user's reaction type, if any (computed)
	MyReaction string         `gorm:"->" json:"my_reaction,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
