package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleura_storefront/internal/cache"
	"fleura_storefront/internal/models"
)

// Client du CMS en amont (slides du carrousel, offres promo).
// Les lectures passent par un cache Redis court pour épargner le CMS
// sur chaque affichage de la page d'accueil.

const (
	slidesCacheKey = "content:hero_slides"
	offersCacheKey = "content:offers"
	contentTTL     = 10 * time.Minute
)

type Client struct {
	baseURL string
	http    *http.Client
	kv      cache.KV
}

func New(baseURL string, kv cache.KV) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		kv:      kv,
	}
}

// HeroSlides retourne les slides d'accueil (cache puis CMS)
func (c *Client) HeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	if cached, err := c.kv.Get(ctx, slidesCacheKey); err == nil {
		var slides []models.HeroSlide
		if json.Unmarshal([]byte(cached), &slides) == nil {
			return slides, nil
		}
	}

	var payload struct {
		Slides []models.HeroSlide `json:"slides"`
	}
	if err := c.fetch(ctx, "/content/hero-slides", &payload); err != nil {
		return nil, err
	}
	if payload.Slides == nil {
		payload.Slides = []models.HeroSlide{}
	}

	if data, err := json.Marshal(payload.Slides); err == nil {
		_ = c.kv.Set(ctx, slidesCacheKey, string(data), contentTTL)
	}
	return payload.Slides, nil
}

// Offers retourne les offres promotionnelles actives (cache puis CMS)
func (c *Client) Offers(ctx context.Context) ([]models.Offer, error) {
	if cached, err := c.kv.Get(ctx, offersCacheKey); err == nil {
		var offers []models.Offer
		if json.Unmarshal([]byte(cached), &offers) == nil {
			return offers, nil
		}
	}

	var payload struct {
		Offers []models.Offer `json:"offers"`
	}
	if err := c.fetch(ctx, "/content/offers", &payload); err != nil {
		return nil, err
	}
	if payload.Offers == nil {
		payload.Offers = []models.Offer{}
	}

	if data, err := json.Marshal(payload.Offers); err == nil {
		_ = c.kv.Set(ctx, offersCacheKey, string(data), contentTTL)
	}
	return payload.Offers, nil
}

func (c *Client) fetch(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("appel CMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("erreur CMS (HTTP %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lecture réponse CMS: %w", err)
	}
	return json.Unmarshal(data, out)
}
