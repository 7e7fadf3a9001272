package user

import (
	"time"

	"todoai-api/internal/common"
)

// User represents a user in the system. Anonymous users are identified only
// by their ID, which doubles as their bearer token.
type User struct {
	ID                common.UserID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name              string        `gorm:"type:varchar(255)" json:"name,omitempty"`
	IsAnonymous       bool          `gorm:"not null" json:"isAnonymous"`
	AIIntegrationType string        `gorm:"type:varchar(50)" json:"aiIntegrationType,omitempty"`
	AIToken           string        `gorm:"type:text" json:"-"`
	AIModel           string        `gorm:"type:varchar(255)" json:"aiModel,omitempty"`
	CreatedAt         time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasAIToken reports whether an AI credential is stored
func (u User) HasAIToken() bool {
	return u.AIToken != ""
}

// Credential is the stored AI credential of a user
type Credential struct {
	APIKey string
	Vendor string
	Model  string
}

// AIIntegration is the update applied by ConfigureAIIntegration
type AIIntegration struct {
	Vendor string `json:"aiIntegrationType" binding:"required"`
	Token  string `json:"aiToken" binding:"required"`
	Model  string `json:"aiModel,omitempty"`
}
