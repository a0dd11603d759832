package confirm

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the signed token handed to the buyer on the success
// redirect. The gated page presents it back to the entitlement check.
type AccessClaims struct {
	UserID string `json:"uid,omitempty"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (c *Confirmer) mintAccessToken(userID, email string) (string, error) {
	ttl := time.Duration(c.config.AccessTokenTTLHours) * time.Hour
	claims := &AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(c.config.AccessTokenSecret))
}

func (c *Confirmer) parseAccessToken(tokenStr string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(c.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid access token")
}

// CheckEntitlement reports whether the bearer of the access token is
// entitled to the gated content. The token identifies the account; the
// entitlement flag itself is always read fresh from storage.
func (c *Confirmer) CheckEntitlement(tokenStr string) (bool, error) {
	claims, err := c.parseAccessToken(tokenStr)
	if err != nil {
		return false, fmt.Errorf("failed to parse access token: %w", err)
	}

	if claims.UserID != "" {
		account, err := c.repo.GetAccount(claims.UserID)
		if err != nil {
			return false, err
		}
		if account != nil {
			return account.Paid, nil
		}
	}

	// Token minted while identity resolution was degraded carries only the
	// payer email.
	return c.CheckEntitlementByEmail(claims.Email)
}
