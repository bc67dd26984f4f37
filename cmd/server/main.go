package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"fleura_storefront/internal/auth"
	"fleura_storefront/internal/cache"
	"fleura_storefront/internal/cartapi"
	"fleura_storefront/internal/config"
	"fleura_storefront/internal/contentapi"
	"fleura_storefront/internal/database"
	"fleura_storefront/internal/handlers"
	"fleura_storefront/internal/localstore"
	"fleura_storefront/internal/routes"
	"fleura_storefront/internal/wishlistapi"
)

func main() {
	config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Échec initialisation Redis: %v", err)
	}
	defer database.Close()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("❌ SESSION_SECRET manquant dans .env")
	}
	auth.InitSessionStore(sessionSecret)

	commerceURL := os.Getenv("COMMERCE_API_URL")
	if commerceURL == "" {
		log.Fatal("❌ COMMERCE_API_URL manquant dans .env")
	}

	cmsURL := os.Getenv("CMS_API_URL")
	if cmsURL == "" {
		cmsURL = commerceURL
	}

	kv := cache.NewRedis(database.Redis)

	deps := routes.Deps{
		Cart: handlers.CartDeps{
			Local:  localstore.New(kv),
			Remote: cartapi.New(commerceURL),
		},
		Content: handlers.ContentDeps{
			Content: contentapi.New(cmsURL, kv),
			KV:      kv,
		},
		Wishlist: handlers.WishlistDeps{
			Client: wishlistapi.New(commerceURL),
			KV:     kv,
		},
		JWTSecret: auth.JWTSecret(),
	}

	r := gin.Default()
	routes.RegisterRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Storefront Fleura lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Serveur arrêté: %v", err)
	}
}
