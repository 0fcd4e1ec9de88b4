package models

import "time"

// MembershipRole defines a member's role within a community.
type MembershipRole string

const (
	// RoleMember is the default role assigned on join.
	RoleMember MembershipRole = "member"
	// RoleAdmin may remove members and manage the community.
	RoleAdmin MembershipRole = "admin"
	// RoleModerator may remove members.
	RoleModerator MembershipRole = "moderator"
)

// Valid reports whether r is a known role.
func (r MembershipRole) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// CanRemoveMembers reports whether the role authorizes removing other members.
func (r MembershipRole) CanRemoveMembers() bool {
	return r == RoleAdmin || r == RoleModerator
}

// CommunityMembership is the ledger of who belongs to which community.
//
// The composite primary key doubles as the uniqueness constraint: a user can
// hold at most one membership per community, enforced by the database rather
// than an application pre-check.
// Rows are hard-deleted on leave so the ledger count always matches reality.
type CommunityMembership struct {
	CommunityID uint           `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Community   *Community     `gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE" json:"community,omitempty"`
	UserID      uint           `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role        MembershipRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt    time.Time      `gorm:"autoCreateTime" json:"joined_at"`
}

// TableName specifies the table name for GORM.
func (CommunityMembership) TableName() string {
	return "community_memberships"
}
