package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleura_storefront/internal/cache"
	"fleura_storefront/internal/middleware"
	"fleura_storefront/internal/models"
)

// Contenu de la page d'accueil (slides, offres) et gating du popup
// d'offre : un popup par session, pas un par chargement de page.

const offerSeenTTL = 12 * time.Hour

// ContentProvider : lecture du contenu CMS (contentapi.Client)
type ContentProvider interface {
	HeroSlides(ctx context.Context) ([]models.HeroSlide, error)
	Offers(ctx context.Context) ([]models.Offer, error)
}

type ContentDeps struct {
	Content ContentProvider
	KV      cache.KV
}

// GetHomeContent renvoie le contenu d'accueil. Une panne CMS dégrade en
// listes vides plutôt que de casser la page.
func GetHomeContent(deps ContentDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		slides, err := deps.Content.HeroSlides(ctx)
		if err != nil {
			log.Printf("⚠️ Chargement des slides échoué: %v", err)
			slides = []models.HeroSlide{}
		}

		offers, err := deps.Content.Offers(ctx)
		if err != nil {
			log.Printf("⚠️ Chargement des offres échoué: %v", err)
			offers = []models.Offer{}
		}

		c.JSON(http.StatusOK, models.HomeContent{Slides: slides, Offers: offers})
	}
}

// GetOfferPopup décide si le popup d'offre doit s'afficher pour cette
// session. Premier appel de la session → popup + flag ; suivants → rien.
func GetOfferPopup(deps ContentDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := middleware.SessionFrom(c)

		if sess.UserID == "" {
			c.JSON(http.StatusOK, gin.H{"show": false})
			return
		}

		seenKey := "offer_seen:" + sess.UserID
		if seen, err := deps.KV.Exists(ctx, seenKey); err == nil && seen {
			c.JSON(http.StatusOK, gin.H{"show": false})
			return
		}

		offers, err := deps.Content.Offers(ctx)
		if err != nil {
			log.Printf("⚠️ Chargement des offres échoué: %v", err)
			c.JSON(http.StatusOK, gin.H{"show": false})
			return
		}

		offer := pickPopupOffer(offers)
		if offer == nil {
			c.JSON(http.StatusOK, gin.H{"show": false})
			return
		}

		if err := deps.KV.Set(ctx, seenKey, "1", offerSeenTTL); err != nil {
			log.Printf("⚠️ Marquage popup vu échoué pour %s: %v", sess.UserID, err)
		}

		c.JSON(http.StatusOK, gin.H{"show": true, "offer": offer})
	}
}

func pickPopupOffer(offers []models.Offer) *models.Offer {
	now := time.Now()
	for i := range offers {
		offer := offers[i]
		if !offer.ShowAsPopup {
			continue
		}
		if offer.ExpiresAt != nil && offer.ExpiresAt.Before(now) {
			continue
		}
		return &offer
	}
	return nil
}
