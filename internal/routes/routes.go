package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fleura_storefront/internal/handlers"
	"fleura_storefront/internal/middleware"
)

type Deps struct {
	Cart      handlers.CartDeps
	Content   handlers.ContentDeps
	Wishlist  handlers.WishlistDeps
	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.Use(corsConfig())

	api := r.Group("/api")
	api.Use(middleware.ResolveSession(deps.JWTSecret))
	api.Use(middleware.APIRateLimit())

	// Panier
	api.GET("/cart", handlers.GetCart(deps.Cart))
	api.POST("/cart", middleware.CartRateLimit(), handlers.AddToCart(deps.Cart))
	api.PUT("/cart/:itemId", handlers.UpdateCartItem(deps.Cart))
	api.DELETE("/cart/:itemId", handlers.RemoveCartItem(deps.Cart))
	api.DELETE("/cart", handlers.ClearCart(deps.Cart))

	// Contenu d'accueil
	api.GET("/content/home", handlers.GetHomeContent(deps.Content))
	api.GET("/content/offer-popup", handlers.GetOfferPopup(deps.Content))

	// Wishlist
	api.GET("/wishlist", handlers.GetWishlist(deps.Wishlist))
	api.POST("/wishlist", handlers.AddToWishlist(deps.Wishlist))
	api.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist(deps.Wishlist))
}

func corsConfig() gin.HandlerFunc {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
