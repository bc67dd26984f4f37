package wishlistapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleura_storefront/internal/models"
)

// Client HTTP fin vers les endpoints wishlist de l'API commerce.
// Réservé aux utilisateurs connectés : pas de wishlist invité.

// ErrLoginRequired : le serveur exige une connexion (401/403)
var ErrLoginRequired = errors.New("veuillez vous connecter pour gérer votre wishlist")

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Get(ctx context.Context, token string) ([]models.WishlistItem, error) {
	return c.do(ctx, token, http.MethodGet, "/wishlist", nil)
}

func (c *Client) Add(ctx context.Context, token, productID string) ([]models.WishlistItem, error) {
	body := map[string]string{"productId": productID}
	return c.do(ctx, token, http.MethodPost, "/wishlist", body)
}

func (c *Client) Remove(ctx context.Context, token, productID string) ([]models.WishlistItem, error) {
	return c.do(ctx, token, http.MethodDelete, "/wishlist/"+productID, nil)
}

func (c *Client) do(ctx context.Context, token, method, path string, body interface{}) ([]models.WishlistItem, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("appel API wishlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrLoginRequired
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("erreur API wishlist (HTTP %d)", resp.StatusCode)
	}

	var payload struct {
		Items []models.WishlistItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("décodage réponse wishlist: %w", err)
	}
	if payload.Items == nil {
		payload.Items = []models.WishlistItem{}
	}
	return payload.Items, nil
}
