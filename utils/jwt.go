package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"consultly/config"
	"consultly/models"

	"github.com/golang-jwt/jwt"
)

func jwtSecret() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "consultly-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given subject and role. The
// token expires after the specified duration; credential issuance itself
// lives outside this service, which only needs to mint tokens for tests and
// tooling and to verify inbound ones.
func GenerateToken(subjectID string, role models.Role, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
}

// ExtractIdentityFromToken extracts the subject and role from a valid JWT
// token string.
func ExtractIdentityFromToken(tokenString string) (models.Identity, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Identity{}, errors.New("token does not contain a valid 'sub' claim")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return models.Identity{}, errors.New("token does not contain a valid 'role' claim")
	}

	identity := models.Identity{SubjectID: sub, Role: models.Role(roleStr)}
	if !identity.Role.Valid() {
		return models.Identity{}, errors.New("token carries an unknown role")
	}
	return identity, nil
}
