package cartapi

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

// Client HTTP fin vers l'API panier de la plateforme commerce.
// Chaque appel renvoie le panier complet faisant autorité côté serveur.

// ErrLoginRequired : le serveur exige une connexion (401/403)
var ErrLoginRequired = errors.New("veuillez vous connecter pour gérer votre panier")

// CartResponse : réponse normalisée de tous les endpoints panier
type CartResponse struct {
	Cart      []models.ServerCartItem `json:"cart"`
	ItemCount int                     `json:"itemCount"`
}

// AddRequest : corps du POST /cart. CustomPrice permet au serveur
// d'aligner son prix sur celui calculé côté storefront (remise,
// supplément de personnalisation déjà inclus).
type AddRequest struct {
	ProductID      string                `json:"productId"`
	Quantity       int                   `json:"quantity"`
	Customizations models.Customizations `json:"customizations,omitempty"`
	CustomPrice    *float64              `json:"customPrice,omitempty"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

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

func (c *Client) Get(ctx context.Context, token string) (*CartResponse, error) {
	return c.do(ctx, token, http.MethodGet, "/cart", nil)
}

func (c *Client) Add(ctx context.Context, token string, req AddRequest) (*CartResponse, error) {
	return c.do(ctx, token, http.MethodPost, "/cart", req)
}

func (c *Client) UpdateQuantity(ctx context.Context, token, itemID string, quantity int) (*CartResponse, error) {
	return c.do(ctx, token, http.MethodPut, "/cart/"+itemID, updateRequest{Quantity: quantity})
}

func (c *Client) Remove(ctx context.Context, token, itemID string) (*CartResponse, error) {
	return c.do(ctx, token, http.MethodDelete, "/cart/"+itemID, nil)
}

func (c *Client) Clear(ctx context.Context, token string) (*CartResponse, error) {
	return c.do(ctx, token, http.MethodDelete, "/cart", nil)
}

func (c *Client) do(ctx context.Context, token, method, path string, body interface{}) (*CartResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encodage requête panier: %w", err)
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("appel API panier: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lecture réponse panier: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrLoginRequired
	}
	if resp.StatusCode >= 400 {
		return nil, errors.New(serverMessage(data, resp.StatusCode))
	}

	var result CartResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("décodage réponse panier: %w", err)
	}
	if result.Cart == nil {
		result.Cart = []models.ServerCartItem{}
	}
	return &result, nil
}

// serverMessage extrait le message d'erreur renvoyé par le serveur,
// sinon un message générique
func serverMessage(data []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("erreur API panier (HTTP %d)", status)
}
