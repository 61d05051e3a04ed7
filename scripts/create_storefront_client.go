package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Local copies of the model rows so the script stays runnable against any
// database the server has migrated.

type OAuthClient struct {
	ID        string `gorm:"primaryKey"`
	Secret    string `gorm:"not null"`
	Name      string
	Domain    string
	UserID    uint
	Scopes    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	Password  string `gorm:"not null"`
	Role      string `gorm:"default:'admin'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func main() {
	dbPath := flag.String("db", "bakery.sqlite", "Path to the SQLite database")
	name := flag.String("name", "Storefront", "Client display name")
	domain := flag.String("domain", "http://localhost", "Client domain")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	userID := getOwnerUserID(db)
	if userID == 0 {
		log.Fatal("Failed to get or create owner user")
	}

	clientID := uuid.New().String()
	clientSecret := uuid.New().String()

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	client := OAuthClient{
		ID:     clientID,
		Secret: string(hash),
		Name:   *name,
		Domain: *domain,
		UserID: userID,
		Scopes: "read",
	}

	if err := db.Create(&client).Error; err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Println("Storefront OAuth client created!")
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s (shown only once)\n", clientSecret)
	fmt.Println("\nRequest a token with:")
	fmt.Printf("curl -X POST http://localhost:8080/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}

// getOwnerUserID gets or creates the owner account the client acts as.
func getOwnerUserID(db *gorm.DB) uint {
	var user User
	email := "owner@bakery.local"

	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		fmt.Printf("Found existing user: %s (ID: %d)\n", user.Email, user.ID)
		return user.ID
	}

	// A random password: the owner account backs the storefront client and
	// is not meant for interactive login until a real password is set.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash placeholder password: %v", err)
		return 0
	}

	user = User{
		Email:    email,
		Name:     "Bakery Owner",
		Password: string(hash),
		Role:     "admin",
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		return 0
	}

	fmt.Printf("Created new user: %s (ID: %d)\n", user.Email, user.ID)
	return user.ID
}
