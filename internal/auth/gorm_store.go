package auth

import (
	"context"
	"time"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/models"
	"gorm.io/gorm"

	internalmodels "github.com/mstclair/bakery-backoffice/internal/models"
)

type GormClientStore struct {
	db *gorm.DB
}

func NewGormClientStore(db *gorm.DB) *GormClientStore {
	return &GormClientStore{db: db}
}

func (s *GormClientStore) GetByID(ctx context.Context, id string) (oauth2.ClientInfo, error) {
	var client internalmodels.OAuthClient
	if err := s.db.Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}

	// Our OAuthClient implements ClientPasswordVerifier
	return &client, nil
}

// GormTokenStore persists issued access tokens. Only the client-credentials
// grant is served, so the refresh- and code-related methods of the TokenStore
// interface are inert.
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) Create(ctx context.Context, info oauth2.TokenInfo) error {
	userID := info.GetUserID()

	token := &internalmodels.OAuthToken{
		ClientID:    info.GetClientID(),
		UserID:      &userID,
		AccessToken: info.GetAccess(),
		Scopes:      info.GetScope(),
		ExpiresAt:   time.Now().Add(info.GetAccessExpiresIn()),
	}

	return s.db.Create(token).Error
}

func (s *GormTokenStore) RemoveByAccess(ctx context.Context, access string) error {
	return s.db.Where("access_token = ?", access).Delete(&internalmodels.OAuthToken{}).Error
}

func (s *GormTokenStore) GetByAccess(ctx context.Context, access string) (oauth2.TokenInfo, error) {
	var token internalmodels.OAuthToken
	if err := s.db.Where("access_token = ?", access).First(&token).Error; err != nil {
		return nil, err
	}

	info := &models.Token{
		ClientID:        token.ClientID,
		Access:          token.AccessToken,
		AccessExpiresIn: time.Until(token.ExpiresAt),
		Scope:           token.Scopes,
	}
	if token.UserID != nil {
		info.UserID = *token.UserID
	}
	return info, nil
}

func (s *GormTokenStore) RemoveByRefresh(ctx context.Context, refresh string) error {
	return nil
}

func (s *GormTokenStore) GetByRefresh(ctx context.Context, refresh string) (oauth2.TokenInfo, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *GormTokenStore) RemoveByCode(ctx context.Context, code string) error {
	return nil
}

func (s *GormTokenStore) GetByCode(ctx context.Context, code string) (oauth2.TokenInfo, error) {
	return nil, gorm.ErrRecordNotFound
}
