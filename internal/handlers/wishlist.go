package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleura_storefront/internal/cache"
	"fleura_storefront/internal/middleware"
	"fleura_storefront/internal/models"
	"fleura_storefront/internal/wishlistapi"
)

const wishlistCacheTTL = 10 * time.Minute

// WishlistProvider : opérations wishlist côté API commerce
type WishlistProvider interface {
	Get(ctx context.Context, token string) ([]models.WishlistItem, error)
	Add(ctx context.Context, token, productID string) ([]models.WishlistItem, error)
	Remove(ctx context.Context, token, productID string) ([]models.WishlistItem, error)
}

type WishlistDeps struct {
	Client WishlistProvider
	KV     cache.KV
}

// GetWishlist récupère la wishlist de l'utilisateur (cache puis API)
func GetWishlist(deps WishlistDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := middleware.SessionFrom(c)
		if !sess.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Veuillez vous connecter pour gérer votre wishlist"})
			return
		}

		cacheKey := "wishlist:" + sess.UserID
		if cached, err := deps.KV.Get(ctx, cacheKey); err == nil {
			var wishlist models.Wishlist
			if json.Unmarshal([]byte(cached), &wishlist) == nil {
				c.JSON(http.StatusOK, wishlist)
				return
			}
		}

		items, err := deps.Client.Get(ctx, sess.Token)
		if err != nil {
			wishlistError(c, err)
			return
		}

		wishlist := models.Wishlist{UserID: sess.UserID, Items: items}

		// Mettre en cache
		if data, err := json.Marshal(wishlist); err == nil {
			_ = deps.KV.Set(ctx, cacheKey, string(data), wishlistCacheTTL)
		}

		c.JSON(http.StatusOK, wishlist)
	}
}

// AddToWishlist ajoute un produit à la wishlist
func AddToWishlist(deps WishlistDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := middleware.SessionFrom(c)
		if !sess.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Veuillez vous connecter pour gérer votre wishlist"})
			return
		}

		var req struct {
			ProductID string `json:"product_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
			return
		}

		items, err := deps.Client.Add(ctx, sess.Token, req.ProductID)
		if err != nil {
			wishlistError(c, err)
			return
		}

		// Invalider le cache
		_ = deps.KV.Del(ctx, "wishlist:"+sess.UserID)
		log.Printf("⭐ Produit %s ajouté à la wishlist de %s", req.ProductID, sess.UserID)

		c.JSON(http.StatusOK, gin.H{
			"message":    "Produit ajouté à la wishlist",
			"product_id": req.ProductID,
			"items":      items,
		})
	}
}

// RemoveFromWishlist retire un produit de la wishlist
func RemoveFromWishlist(deps WishlistDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := middleware.SessionFrom(c)
		if !sess.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Veuillez vous connecter pour gérer votre wishlist"})
			return
		}

		productID := c.Param("productId")

		items, err := deps.Client.Remove(ctx, sess.Token, productID)
		if err != nil {
			wishlistError(c, err)
			return
		}

		// Invalider le cache
		_ = deps.KV.Del(ctx, "wishlist:"+sess.UserID)
		log.Printf("🗑️ Produit %s retiré de la wishlist de %s", productID, sess.UserID)

		c.JSON(http.StatusOK, gin.H{
			"message": "Produit retiré de la wishlist",
			"items":   items,
		})
	}
}

func wishlistError(c *gin.Context, err error) {
	if errors.Is(err, wishlistapi.ErrLoginRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Veuillez vous connecter pour gérer votre wishlist"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
