package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleura_storefront/internal/auth"
	"fleura_storefront/internal/cartapi"
	"fleura_storefront/internal/cartstore"
	"fleura_storefront/internal/middleware"
	"fleura_storefront/internal/models"
)

// Endpoints panier exposés au storefront. Chaque requête construit un
// store lié à sa session : le store décide de la branche
// invité (sauvegarde locale) / authentifié (API commerce).

type CartDeps struct {
	Local  cartstore.LocalStore
	Remote cartstore.RemoteClient
}

func storeFor(c *gin.Context, deps CartDeps) *cartstore.Store {
	sess := middleware.SessionFrom(c)
	return cartstore.New(deps.Local, deps.Remote, auth.Static{S: sess})
}

func cartJSON(store *cartstore.Store) gin.H {
	return gin.H{
		"items":     store.Items(),
		"itemCount": store.ItemCount(),
		"subtotal":  store.Subtotal(),
	}
}

// GetCart renvoie le panier de la session courante
func GetCart(deps CartDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := storeFor(c, deps)
		if err := store.LoadCart(c.Request.Context(), ""); err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartJSON(store))
	}
}

// AddToCart ajoute un article au panier de la session
func AddToCart(deps CartDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item models.CartItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
			return
		}

		store := storeFor(c, deps)
		if err := store.LoadCart(c.Request.Context(), ""); err != nil {
			cartError(c, err)
			return
		}
		if err := store.AddToCart(c.Request.Context(), item); err != nil {
			cartError(c, err)
			return
		}

		resp := cartJSON(store)
		resp["message"] = "Produit ajouté au panier"
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateCartItem modifie la quantité d'une ligne (0 → suppression)
func UpdateCartItem(deps CartDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("itemId")

		var input struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
			return
		}

		store := storeFor(c, deps)
		if err := store.UpdateItemQuantity(c.Request.Context(), itemID, input.Quantity); err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartJSON(store))
	}
}

// RemoveCartItem retire une ligne du panier
func RemoveCartItem(deps CartDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("itemId")

		store := storeFor(c, deps)
		if err := store.RemoveItem(c.Request.Context(), itemID); err != nil {
			cartError(c, err)
			return
		}

		resp := cartJSON(store)
		resp["message"] = "Produit supprimé du panier"
		c.JSON(http.StatusOK, resp)
	}
}

// ClearCart vide entièrement le panier
func ClearCart(deps CartDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := storeFor(c, deps)
		if err := store.ClearCart(c.Request.Context()); err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
	}
}

func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartstore.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cartstore.ErrNotAuthenticated), errors.Is(err, cartapi.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Veuillez vous connecter pour gérer votre panier"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
