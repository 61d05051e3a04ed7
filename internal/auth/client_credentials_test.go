package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mstclair/bakery-backoffice/internal/models"
)

func TestClientCredentialsFlow(t *testing.T) {
	db := setupTestDB(t)

	oauthService := NewOAuthService(db, "test-jwt-secret-key-32-characters")
	require.NotNil(t, oauthService)

	testUser := createTestUser(t, db)

	// The plain secret is verified against the stored bcrypt hash.
	hashedSecret, _ := bcrypt.GenerateFromPassword([]byte("test_secret"), bcrypt.DefaultCost)
	client := &models.OAuthClient{
		ID:     "test_client_id",
		Secret: string(hashedSecret),
		Domain: "http://localhost:8080",
		Scopes: "read",
		UserID: testUser.ID,
	}
	err := db.Create(client).Error
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/oauth/token", oauthService.HandleToken)

	tokenReq := "grant_type=client_credentials&client_id=test_client_id&client_secret=test_secret&scope=read"

	req := httptest.NewRequest("POST", "/oauth/token", bytes.NewBufferString(tokenReq))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	assert.Contains(t, response, "access_token")
	assert.Contains(t, response, "token_type")
	assert.Equal(t, "Bearer", response["token_type"])

	// Verify the token is a JWT
	accessToken := response["access_token"].(string)
	assert.Contains(t, accessToken, ".")
}

func TestClientCredentialsInvalidSecret(t *testing.T) {
	db := setupTestDB(t)
	oauthService := NewOAuthService(db, "test-jwt-secret-key-32-characters")
	require.NotNil(t, oauthService)

	testUser := createTestUser(t, db)

	hashedSecret, _ := bcrypt.GenerateFromPassword([]byte("correct_secret"), bcrypt.DefaultCost)
	client := &models.OAuthClient{
		ID:     "test_client_id",
		Secret: string(hashedSecret),
		Domain: "http://localhost:8080",
		Scopes: "read",
		UserID: testUser.ID,
	}
	err := db.Create(client).Error
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/oauth/token", oauthService.HandleToken)

	tokenReq := "grant_type=client_credentials&client_id=test_client_id&client_secret=wrong_secret&scope=read"

	req := httptest.NewRequest("POST", "/oauth/token", bytes.NewBufferString(tokenReq))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClientCredentialsUnsupportedGrant(t *testing.T) {
	db := setupTestDB(t)
	oauthService := NewOAuthService(db, "test-jwt-secret-key-32-characters")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/oauth/token", oauthService.HandleToken)

	tokenReq := "grant_type=authorization_code&client_id=x&client_secret=y&code=z"

	req := httptest.NewRequest("POST", "/oauth/token", bytes.NewBufferString(tokenReq))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unsupported_grant_type", response["error"])
}
