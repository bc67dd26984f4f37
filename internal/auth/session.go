package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// Session : identité résolue pour la requête en cours. Un invité reçoit
// un identifiant anonyme stable (cookie) pour garder la même clé de
// panier d'une requête à l'autre.
type Session struct {
	Authenticated bool
	UserID        string
	Token         string
}

// StateProvider : capacité interrogée par le cart store à chaque
// opération pour décider de la branche invité / authentifié
type StateProvider interface {
	Session(ctx context.Context) Session
}

// Static : provider figé sur une session déjà résolue (une par requête)
type Static struct {
	S Session
}

func (p Static) Session(ctx context.Context) Session {
	return p.S
}

// --- Cookie de session invité ---

const guestSessionName = "fleura_session"

var cookieStore *sessions.CookieStore

// InitSessionStore configure le store de cookies pour les invités
func InitSessionStore(secret string) {
	cookieStore = sessions.NewCookieStore([]byte(secret))
	cookieStore.MaxAge(86400 * 30)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
}

// GuestID retourne l'identifiant anonyme de la requête, en le créant
// (et en posant le cookie) si nécessaire
func GuestID(w http.ResponseWriter, r *http.Request) string {
	if cookieStore == nil {
		return ""
	}

	session, _ := cookieStore.Get(r, guestSessionName)
	if id, ok := session.Values["guest_id"].(string); ok && id != "" {
		return id
	}

	id := "guest-" + uuid.NewString()
	session.Values["guest_id"] = id
	_ = session.Save(r, w)
	return id
}

// --- Vérification du bearer token ---

// ParseBearer valide un header Authorization et retourne le user_id du
// token. Signature HMAC uniquement, expiration vérifiée.
func ParseBearer(authHeader, secret string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("header Authorization manquant")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("format Authorization invalide")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("token invalide: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims invalides")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return "", fmt.Errorf("token expiré")
		}
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id manquant")
	}

	return userID, nil
}

// JWTSecret lit le secret JWT de l'environnement
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return secret
}
