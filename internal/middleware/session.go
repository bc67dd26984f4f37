package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"fleura_storefront/internal/auth"
)

const sessionKey = "storefront_session"

// ResolveSession résout l'identité de chaque requête : bearer token
// valide → session authentifiée ; sinon identité invité (cookie).
// Aucune route panier n'exige la connexion ici, c'est le store qui
// branche invité/authentifié.
func ResolveSession(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			userID, err := auth.ParseBearer(authHeader, jwtSecret)
			if err == nil {
				c.Set(sessionKey, auth.Session{
					Authenticated: true,
					UserID:        userID,
					Token:         bearerToken(authHeader),
				})
				c.Next()
				return
			}
			// Token présent mais invalide → on continue en invité
			log.Printf("⚠️ Bearer token rejeté: %v", err)
		}

		c.Set(sessionKey, auth.Session{
			Authenticated: false,
			UserID:        auth.GuestID(c.Writer, c.Request),
		})
		c.Next()
	}
}

// SessionFrom retourne la session résolue pour la requête
func SessionFrom(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(auth.Session); ok {
			return sess
		}
	}
	return auth.Session{}
}

func bearerToken(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) {
		return authHeader[len(prefix):]
	}
	return ""
}
