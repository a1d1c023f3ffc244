package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abcall/issue-service/internal/config"
)

// UserAccount is one auth-service account belonging to a customer.
type UserAccount struct {
	AuthUserID string `json:"auth_user_id"`
	CustomerID string `json:"customer_id"`
}

// Client resolves customers to their user accounts via the external auth service.
type Client interface {
	UsersByCustomer(ctx context.Context, customerID string) ([]UserAccount, error)
}

type httpClient struct {
	baseURL  string
	secret   string
	tokenTTL time.Duration
	client   *http.Client
}

// New builds an HTTP-backed auth service client.
func New(cfg config.AuthServiceConfig) Client {
	return &httpClient{
		baseURL:  cfg.BaseURL,
		secret:   cfg.ServiceSecret,
		tokenTTL: cfg.TokenTTL(),
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *httpClient) UsersByCustomer(ctx context.Context, customerID string) ([]UserAccount, error) {
	endpoint := fmt.Sprintf("%s/auth/users?customer_id=%s", c.baseURL, url.QueryEscape(customerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	token, err := c.serviceToken()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var accounts []UserAccount
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("decode auth service response: %w", err)
	}
	return accounts, nil
}

// serviceToken signs a short-lived HS256 token identifying this service
// to the auth service.
func (c *httpClient) serviceToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": "issue-service",
		"iat": now.Unix(),
		"exp": now.Add(c.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}
