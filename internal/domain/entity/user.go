// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. Exactly one role applies per account;
// the matching profile pointer is non-nil for that role.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized in API responses
	Name         string    `json:"name"`
	Role         Role      `json:"role"`

	ArtisanProfile    *ArtisanProfile    `json:"artisanProfile,omitempty"`
	InvestorProfile   *InvestorProfile   `json:"investorProfile,omitempty"`
	AmbassadorProfile *AmbassadorProfile `json:"ambassadorProfile,omitempty"`

	IsVerified   bool                 `json:"isVerified"`
	Notification NotificationSettings `json:"notificationSettings"`
	Privacy      PrivacySettings      `json:"privacySettings"`
	Stats        UserStats            `json:"stats"`

	// FCMToken is the account's registered push-notification device token.
	// Empty means no device is registered.
	FCMToken string `json:"fcmToken,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArtisanProfile holds data specific to the artisan role.
type ArtisanProfile struct {
	Specialty      string   `json:"specialty"`
	Bio            string   `json:"bio"`
	Region         string   `json:"region"`
	Certifications []string `json:"certifications"`
	YearsOfCraft   int      `json:"yearsOfCraft"`
}

// InvestorProfile holds data specific to the investor role.
type InvestorProfile struct {
	MinInvestment float64     `json:"minInvestment"`
	MaxInvestment float64     `json:"maxInvestment"`
	Portfolio     []uuid.UUID `json:"portfolio"` // investment IDs
	Interests     []string    `json:"interests"`
}

// AmbassadorProfile holds data specific to the ambassador role.
type AmbassadorProfile struct {
	Region            string      `json:"region"`
	SupportedArtisans []uuid.UUID `json:"supportedArtisans"`
}

// NotificationSettings controls which notifications a user receives.
type NotificationSettings struct {
	OrderUpdates     bool `json:"orderUpdates"`
	MarketingEmails  bool `json:"marketingEmails"`
	CommunityDigest  bool `json:"communityDigest"`
	InvestmentAlerts bool `json:"investmentAlerts"`
}

// PrivacySettings controls profile visibility.
type PrivacySettings struct {
	PublicProfile bool `json:"publicProfile"`
	ShowRegion    bool `json:"showRegion"`
}

// UserStats holds usage counters for an account.
type UserStats struct {
	ProfileViews int        `json:"profileViews"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

// DefaultNotificationSettings returns the settings applied on registration.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		OrderUpdates:     true,
		CommunityDigest:  true,
		InvestmentAlerts: true,
	}
}

// DefaultPrivacySettings returns the settings applied on registration.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{PublicProfile: true, ShowRegion: true}
}
