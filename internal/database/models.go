package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is an account plus the profile fields the dashboard projects.
type User struct {
	gorm.Model
	Username           string      `gorm:"uniqueIndex;size:64"`
	PasswordHash       string      `gorm:"size:255"`
	DisplayName        string      `gorm:"size:128"`
	Headline           string      `gorm:"size:255"`
	AvatarURL          string      `gorm:"size:512"`
	MustChangePassword bool        `gorm:"default:false"`
	Resumes            []Resume    `gorm:"constraint:OnDelete:CASCADE"`
	Portfolios         []Portfolio `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume is an uploaded resume file plus the structured data extracted from it.
// ProcessingStatus is treated as "completed" when empty.
type Resume struct {
	gorm.Model
	UserID           uint           `gorm:"index"`
	User             User           `gorm:"constraint:OnDelete:CASCADE"`
	Title            string         `gorm:"size:255"`
	FileObjectKey    string         `gorm:"size:512"`
	FileSize         int64
	ContentType      string         `gorm:"size:128"`
	StructuredData   datatypes.JSON `gorm:"type:jsonb"`
	ProcessingStatus string         `gorm:"size:32"`
}

// PortfolioData holds the serialized structured-resume categories that fed one
// generation request. Created once, never mutated afterwards.
type PortfolioData struct {
	gorm.Model
	UserID         uint           `gorm:"index"`
	PersonalInfo   datatypes.JSON `gorm:"type:jsonb"`
	Summary        datatypes.JSON `gorm:"type:jsonb"`
	Experience     datatypes.JSON `gorm:"type:jsonb"`
	Education      datatypes.JSON `gorm:"type:jsonb"`
	Skills         datatypes.JSON `gorm:"type:jsonb"`
	Projects       datatypes.JSON `gorm:"type:jsonb"`
	Certifications datatypes.JSON `gorm:"type:jsonb"`
	Achievements   datatypes.JSON `gorm:"type:jsonb"`
	Languages      datatypes.JSON `gorm:"type:jsonb"`
	AIEnhanced     bool           `gorm:"default:false"`
}

// Portfolio is one generated site. It references exactly one PortfolioData row;
// that row must be committed before the Portfolio insert so the FK can resolve.
type Portfolio struct {
	gorm.Model
	UserID             uint          `gorm:"index"`
	PortfolioDataID    uint          `gorm:"index"`
	PortfolioData      PortfolioData `gorm:"constraint:OnDelete:CASCADE"`
	Title              string        `gorm:"size:255"`
	Slug               string        `gorm:"uniqueIndex;size:255"`
	TemplateID         string        `gorm:"size:64"`
	HTML               string
	CSS                string
	JS                 string
	Metadata           datatypes.JSON `gorm:"type:jsonb"`
	Customizations     datatypes.JSON `gorm:"type:jsonb"`
	Published          bool           `gorm:"default:false"`
	PublishedObjectKey string         `gorm:"size:512"`
	PreviewImageURL    string         `gorm:"size:512"`
	ViewCount          int64          `gorm:"default:0"`
}
