package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// IdentityUser is a user record from the identity provider's admin API.
type IdentityUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// IsVendor reports whether the user carries the vendor flag.
func (u *IdentityUser) IsVendor() bool {
	v, _ := u.UserMetadata["isVendor"].(bool)
	return v
}

// IsAdmin reports whether the user carries the admin flag.
func (u *IdentityUser) IsAdmin() bool {
	v, _ := u.UserMetadata["isAdmin"].(bool)
	return v
}

// IdentityClient talks to the external identity provider's admin users
// API. The provider owns accounts and the isAdmin/isVendor metadata
// flags; this service never stores credentials.
type IdentityClient interface {
	GetUser(ctx context.Context, userID string) (*IdentityUser, error)
	ListUsers(ctx context.Context) ([]IdentityUser, error)
	SetUserFlags(ctx context.Context, userID string, flags map[string]bool) error
}

type identityClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewIdentityClient creates a new identity admin API client.
func NewIdentityClient(baseURL, serviceKey string) IdentityClient {
	return &identityClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ErrIdentityNotFound is returned when the provider has no such user.
var ErrIdentityNotFound = fmt.Errorf("identity not found")

// GetUser fetches a single user by id.
func (c *identityClient) GetUser(ctx context.Context, userID string) (*IdentityUser, error) {
	endpoint := fmt.Sprintf("%s/admin/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrIdentityNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user IdentityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// ListUsers pages through the full user list. The provider exposes no
// lookup-by-email, so promotion scans this list for an email match.
func (c *identityClient) ListUsers(ctx context.Context) ([]IdentityUser, error) {
	var users []IdentityUser
	page := 1

	for {
		endpoint := fmt.Sprintf("%s/admin/users?page=%d&per_page=100", c.baseURL, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("identity provider unreachable: %w", err)
		}

		var body struct {
			Users []IdentityUser `json:"users"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode user list: %w", err)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}

		users = append(users, body.Users...)
		if len(body.Users) < 100 {
			return users, nil
		}
		page++
	}
}

// SetUserFlags merges the given boolean flags into the user's metadata.
func (c *identityClient) SetUserFlags(ctx context.Context, userID string, flags map[string]bool) error {
	metadata := make(map[string]any, len(flags))
	for k, v := range flags {
		metadata[k] = v
	}
	payload, err := json.Marshal(map[string]any{"user_metadata": metadata})
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrIdentityNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *identityClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}
