// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

// Claim token lifetime matches the discount window promised in the emails.
const claimTokenTTL = 7 * 24 * time.Hour

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateClaimToken creates a signed token carrying a scored session's
// discount so checkout can verify the tier without trusting the client.
func GenerateClaimToken(sessionID string, assignment *tier.Assignment, jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"sessionId":   sessionID,
		"tier":        string(assignment.Tier),
		"discountPct": assignment.DiscountPct,
		"iat":         time.Now().UTC().Unix(),
		"exp":         time.Now().UTC().Add(claimTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateClaimToken verifies a discount claim token and returns the session
// ID and tier assignment it carries.
func ValidateClaimToken(tokenString, jwtSecret string) (string, *tier.Assignment, error) {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return "", nil, err
	}

	sessionID, ok := claims["sessionId"].(string)
	if !ok || sessionID == "" {
		return "", nil, errors.New("claim token missing session id")
	}
	tierName, ok := claims["tier"].(string)
	if !ok {
		return "", nil, errors.New("claim token missing tier")
	}
	discountPct, ok := claims["discountPct"].(float64)
	if !ok {
		return "", nil, errors.New("claim token missing discount")
	}

	return sessionID, &tier.Assignment{
		Tier:        tier.Tier(tierName),
		DiscountPct: int(discountPct),
	}, nil
}

// GenerateSysOpToken creates a short-lived token for the operator dashboard
func GenerateSysOpToken(jwtSecret string) (string, error) {
	claims := jwt.MapClaims{
		"role": "sysop",
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateSysOpToken verifies an operator dashboard token
func ValidateSysOpToken(tokenString, jwtSecret string) error {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return err
	}
	if role, ok := claims["role"].(string); !ok || role != "sysop" {
		return errors.New("not a sysop token")
	}
	return nil
}
