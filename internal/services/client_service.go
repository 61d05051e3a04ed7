package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mstclair/bakery-backoffice/internal/models"
)

var ErrClientNotFound = errors.New("client_not_found")

// ClientService provisions OAuth clients for storefront integrations. The
// generated secret is returned exactly once, at creation; only its bcrypt
// hash is stored.
type ClientService interface {
	// CreateClient mints credentials for a storefront. The returned client
	// carries the plaintext secret in Secret; the stored row does not.
	CreateClient(name, domain string, userID uint) (*models.OAuthClient, error)
	GetClientsByUserID(userID uint) ([]models.OAuthClient, error)
	GetClientByID(id string) (*models.OAuthClient, error)
	DeleteClient(clientID string, userID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(name, domain string, userID uint) (*models.OAuthClient, error) {
	secret := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := models.OAuthClient{
		ID:     uuid.New().String(),
		Secret: string(hash),
		Name:   name,
		Domain: domain,
		UserID: userID,
		Scopes: "read",
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, err
	}

	client.Secret = secret
	return &client, nil
}

func (s *clientService) GetClientsByUserID(userID uint) ([]models.OAuthClient, error) {
	var clients []models.OAuthClient
	if err := s.db.Where("user_id = ?", userID).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *clientService) DeleteClient(clientID string, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.OAuthClient{})
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return result.Error
}
