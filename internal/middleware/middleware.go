package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// OAuth2Auth validates Bearer JWTs, whether issued by the staff login or by
// the OAuth2 token endpoint, and puts userID, userRole, and (for OAuth2
// tokens) clientID into the request context.
func OAuth2Auth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_request",
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token",
				"Bearer token is empty")
			return
		}

		claims, err := parseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		if err := extractAndSetClaims(c, claims); err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		c.Next()
	}
}

// respondWithOAuth2Error responds with RFC 6750 compliant error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.JSON(status, gin.H{
		"error":             errorCode,
		"error_description": description,
	})
	c.Abort()
}

func parseJWTToken(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Pin the signing method to HMAC to prevent algorithm confusion.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	return claims, nil
}

func parseAndValidateJWT(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	claims, err := parseJWTToken(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return nil, fmt.Errorf("token has expired")
	}

	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf != nil && nbf.After(now) {
		return nil, fmt.Errorf("token not yet valid")
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now) {
		return nil, fmt.Errorf("token issued in the future")
	}

	return claims, nil
}

func extractAndSetClaims(c *gin.Context, claims jwt.MapClaims) error {
	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}

	if userID == 0 {
		return fmt.Errorf("invalid user identifier: cannot be zero")
	}

	c.Set("userID", userID)

	// aud names the OAuth2 client the token was issued to, when there is one.
	if aud, ok := claims["aud"].(string); ok && aud != "" {
		c.Set("clientID", aud)
	} else if audArray, ok := claims["aud"].([]interface{}); ok && len(audArray) > 0 {
		if firstAud, ok := audArray[0].(string); ok && firstAud != "" {
			c.Set("clientID", firstAud)
		}
	}

	// Every token must name a role explicitly; there is no default.
	role, err := extractRole(claims)
	if err != nil {
		return err
	}
	c.Set("userRole", role)

	if scope, ok := claims["scope"].(string); ok && scope != "" {
		c.Set("scopes", scope)
	}

	if clientID, _ := c.Get("clientID"); clientID != nil {
		c.Set("auth_type", "oauth2")
	} else {
		c.Set("auth_type", "jwt")
	}

	return nil
}

// extractUserID reads the uid claim. Staff login tokens carry it as a JSON
// number under "user"; OAuth2 tokens carry it as a numeric string under
// "uid".
func extractUserID(claims jwt.MapClaims) (uint, error) {
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		parsedID, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
		}
		return uint(parsedID), nil
	}

	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}

	if uid, ok := claims["user"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid user claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}

	return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
}

func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim. Tokens must explicitly specify user roles")
	}

	allowedRoles := map[string]bool{
		"admin": true,
		"user":  true,
	}

	if !allowedRoles[role] {
		return "", fmt.Errorf("invalid role '%s'. Allowed roles: admin, user", role)
	}

	return role, nil
}
