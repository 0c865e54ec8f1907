// Package supabase talks to the identity provider's admin API (GoTrue).
// Credentials live in the provider; the application database only mirrors
// profiles.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AdminUser is a provider-managed user record
type AdminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminClient performs user management against the provider
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewAdminClient creates an admin client for the given project URL and service
// role key
func NewAdminClient(baseURL, serviceKey string) (*AdminClient, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, errors.New("supabase URL and service key are required")
	}
	return &AdminClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// CreateUser provisions a confirmed user with the given role stored in user
// metadata
func (c *AdminClient) CreateUser(ctx context.Context, email, password, role string) (*AdminUser, error) {
	body, err := json.Marshal(map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"role": role},
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/admin/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("user creation failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var user AdminUser
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a provider user by identifier
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/auth/v1/admin/users/"+userID, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("user deletion failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *AdminClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
}
