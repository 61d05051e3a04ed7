package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/mstclair/bakery-backoffice/internal/models"
)

// CustomJWTAccessGenerate generates JWT access tokens with custom claims including UserID and Role
type CustomJWTAccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	DB           *gorm.DB // Database connection to fetch user information
}

// NewCustomJWTAccessGenerate creates a new custom JWT access token generator
func NewCustomJWTAccessGenerate(key []byte, method jwt.SigningMethod, db *gorm.DB) *CustomJWTAccessGenerate {
	return &CustomJWTAccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
		DB:           db,
	}
}

// Token generates a JWT access token with custom claims
// This method is called by the OAuth2 library to generate access tokens
func (g *CustomJWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	claims := jwt.MapClaims{
		"aud": data.Client.GetID(),
		"exp": data.TokenInfo.GetAccessCreateAt().Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
	}

	// For the client_credentials flow GenerateBasic.UserID is empty; the
	// client row names the staff account it acts as.
	userID := data.UserID
	if userID == "" {
		userID = data.Client.GetUserID()
	}

	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	claims["uid"] = userID

	// The role comes from the database at issue time, never from the request.
	role, err := g.getUserRole(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user role: %w", err)
	}
	claims["role"] = role

	if data.TokenInfo.GetScope() != "" {
		claims["scope"] = data.TokenInfo.GetScope()
	}

	token := jwt.NewWithClaims(g.SignedMethod, claims)
	access, err := token.SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}

	// Refresh tokens are not issued for the client-credentials grant.
	return access, "", nil
}

// getUserRole fetches the user's role from the database
func (g *CustomJWTAccessGenerate) getUserRole(userIDStr string) (string, error) {
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	if err := g.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf("user with ID %d not found", userID)
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	if user.Role == "" {
		return "user", nil
	}

	return user.Role, nil
}
