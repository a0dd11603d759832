// Package identity talks to the authentication service's admin API.
// Accounts and identities are separate layers: an identity can log in,
// a profile row carries the entitlement. The confirm flow consults both.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

type AdminClient struct {
	logger *logger.Logger

	baseURL string
	apiKey  string

	client *http.Client
}

func NewAdminClient(baseURL, apiKey string, timeout time.Duration, logger *logger.Logger) *AdminClient {
	return &AdminClient{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type adminUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
	UserMetadata   struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	} `json:"user_metadata"`
}

func (u *adminUser) toIdentity() *models.Identity {
	return &models.Identity{
		ID:             u.ID,
		Email:          strings.ToLower(u.Email),
		EmailConfirmed: u.EmailConfirmed,
		FullName:       u.UserMetadata.FullName,
		Phone:          u.UserMetadata.Phone,
	}
}

// FindByEmail returns the identity registered for the email, or nil when
// none exists.
func (c *AdminClient) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	endpoint := fmt.Sprintf("%s/admin/users?email=%s", c.baseURL, url.QueryEscape(strings.ToLower(email)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("identity lookup returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Users []adminUser `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode identity lookup response: %w", err)
	}

	lowered := strings.ToLower(email)
	for i := range decoded.Users {
		if strings.ToLower(decoded.Users[i].Email) == lowered {
			return decoded.Users[i].toIdentity(), nil
		}
	}

	return nil, nil
}

type createUserRequest struct {
	Email        string `json:"email"`
	EmailConfirm bool   `json:"email_confirm"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	} `json:"user_metadata"`
}

// Create provisions a new identity. The email is created pre-confirmed:
// payment proof substitutes for a verification email.
func (c *AdminClient) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	body := createUserRequest{
		Email:        strings.ToLower(identity.Email),
		EmailConfirm: true,
	}
	body.UserMetadata.FullName = identity.FullName
	body.UserMetadata.Phone = identity.Phone

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal identity create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build identity create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("identity create returned status %d", resp.StatusCode)
	}

	var created adminUser
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode identity create response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("identity create response missing id")
	}

	c.logger.Info("Provisioned new identity ", "email ", created.Email, "id ", created.ID)
	return created.toIdentity(), nil
}
