package auth

import (
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// OAuthService issues access tokens for storefront integrations over the
// client-credentials grant. Tokens are JWTs carrying uid and role claims so
// the same middleware validates staff logins and storefront tokens alike.
type OAuthService struct {
	server *server.Server
	db     *gorm.DB
}

func NewOAuthService(db *gorm.DB, jwtSecret string) *OAuthService {
	manager := manage.NewDefaultManager()

	// JWT access tokens with uid/role claims resolved from the database
	manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS512, db))

	// Configure token store
	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)

	// Configure client store
	clientStore := NewGormClientStore(db)
	manager.MapClientStorage(clientStore)

	srv := server.NewDefaultServer(manager)
	srv.SetClientInfoHandler(server.ClientFormHandler)

	return &OAuthService{
		server: srv,
		db:     db,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}
