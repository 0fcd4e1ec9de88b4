// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountType classifies a user account.
type AccountType string

const (
	// AccountTypeIndividual is a regular retail account.
	AccountTypeIndividual AccountType = "individual"
	// AccountTypeInstitutional is a firm or fund account.
	AccountTypeInstitutional AccountType = "institutional"
	// AccountTypeVerified is an identity-verified public figure or analyst.
	AccountTypeVerified AccountType = "verified"
)

// User represents a platform account. Identity issuance (signup, login,
// passwords) is handled by an external auth service; this row only carries
// profile data and authorization flags.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"size:50;unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	FullName    string         `gorm:"size:255" json:"full_name"`
	Bio         string         `json:"bio"`
	Avatar      string         `json:"avatar"`
	AccountType AccountType    `gorm:"type:varchar(20);not null;default:'individual'" json:"account_type"`
	IsAdmin     bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	FinancialProfile *UserFinancialProfile `gorm:"foreignKey:UserID" json:"financial_profile,omitempty"`
}

// ExperienceLevel describes self-reported investing experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceProfessional ExperienceLevel = "professional"
)

// RiskTolerance describes self-reported appetite for risk.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// UserFinancialProfile holds optional investing background for a user.
type UserFinancialProfile struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	UserID               uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	InvestmentExperience ExperienceLevel `gorm:"type:varchar(20)" json:"investment_experience,omitempty"`
	RiskTolerance        RiskTolerance   `gorm:"type:varchar(10)" json:"risk_tolerance,omitempty"`
	PreferredSectors     []string        `gorm:"serializer:json" json:"preferred_sectors"`
	AnnualIncome         *float64        `gorm:"type:decimal(15,2)" json:"annual_income,omitempty"`
	NetWorth             *float64        `gorm:"type:decimal(15,2)" json:"net_worth,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (UserFinancialProfile) TableName() string {
	return "user_financial_profiles"
}
