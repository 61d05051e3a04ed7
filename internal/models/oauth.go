package models

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthClient is an external integration allowed to read the catalog via the
// client-credentials grant. In practice this is the storefront website that
// lists recipes and takes order requests.
type OAuthClient struct {
	ID     string `gorm:"primaryKey"`
	Secret string `gorm:"not null" json:"-"` // bcrypt hash
	Name   string
	Domain string
	// UserID is the staff account the client acts as; its role ends up in
	// issued tokens.
	UserID    uint
	Scopes    string // space-separated
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// The go-oauth2 ClientInfo interface.

func (c *OAuthClient) GetID() string     { return c.ID }
func (c *OAuthClient) GetSecret() string { return c.Secret }
func (c *OAuthClient) GetDomain() string { return c.Domain }
func (c *OAuthClient) IsPublic() bool    { return false }
func (c *OAuthClient) GetUserID() string {
	if c.UserID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(c.UserID), 10)
}

// VerifyPassword lets the oauth2 server check the plain-text secret against
// the stored bcrypt hash (ClientPasswordVerifier).
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}

// OAuthToken is an issued access token, kept so tokens can be revoked and
// introspected server-side.
type OAuthToken struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    string `gorm:"not null"`
	UserID      *string
	AccessToken string `gorm:"uniqueIndex;not null"`
	Scopes      string
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
