package localstore

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fleura_storefront/internal/cache"
	"fleura_storefront/internal/models"
)

// Sauvegarde locale des paniers : instantanés JSON par utilisateur,
// même schéma de clés que le stockage navigateur historique
// (`cart_<userId>`, clé générique `cart` pour les anonymes/legacy).
// Toutes les écritures sont best-effort : le panier en mémoire reste
// la référence même si la sauvegarde échoue.

const (
	keyPrefix = "cart_"
	legacyKey = "cart"

	// Même durée de rétention que les paniers historiques (30 jours)
	cartTTL = 30 * 24 * time.Hour
)

type Store struct {
	kv cache.KV
}

func New(kv cache.KV) *Store {
	return &Store{kv: kv}
}

// Key retourne la clé de stockage du panier d'un utilisateur
func Key(userID string) string {
	if userID == "" {
		return legacyKey
	}
	return keyPrefix + userID
}

// Load lit l'instantané local d'un utilisateur. Clé absente ou JSON
// illisible → panier vide, jamais d'erreur pour l'appelant.
func (s *Store) Load(ctx context.Context, userID string) []models.CartItem {
	data, err := s.kv.Get(ctx, Key(userID))
	if err != nil || data == "" {
		return []models.CartItem{}
	}
	return parseItems(data)
}

// Save écrit l'instantané d'un utilisateur. Échec → loggé, non fatal.
func (s *Store) Save(ctx context.Context, userID string, items []models.CartItem) bool {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("⚠️ Sérialisation panier impossible pour %q: %v", userID, err)
		return false
	}
	if err := s.kv.Set(ctx, Key(userID), string(data), cartTTL); err != nil {
		log.Printf("⚠️ Sauvegarde locale du panier échouée pour %q: %v", userID, err)
		return false
	}
	return true
}

// Clear supprime l'instantané local d'un utilisateur
func (s *Store) Clear(ctx context.Context, userID string) {
	if err := s.kv.Del(ctx, Key(userID)); err != nil {
		log.Printf("⚠️ Suppression de l'instantané local échouée pour %q: %v", userID, err)
	}
}

// MigrateLegacy adopte l'ancien panier non préfixé comme panier de
// l'utilisateur si celui-ci n'a pas encore de panier à son nom.
// Effective une seule fois : la clé préfixée existe ensuite.
func (s *Store) MigrateLegacy(ctx context.Context, userID string) []models.CartItem {
	if userID == "" {
		return []models.CartItem{}
	}

	if exists, err := s.kv.Exists(ctx, Key(userID)); err == nil && exists {
		return s.Load(ctx, userID)
	}

	data, err := s.kv.Get(ctx, legacyKey)
	if err != nil || data == "" {
		return []models.CartItem{}
	}

	items := parseItems(data)
	if len(items) == 0 {
		return []models.CartItem{}
	}

	if s.Save(ctx, userID, items) {
		// L'ancien panier appartient maintenant à l'utilisateur
		_ = s.kv.Del(ctx, legacyKey)
		log.Printf("🔄 Panier legacy migré vers %s", Key(userID))
	}
	return items
}

// parseItems décode un instantané en filtrant les entrées corrompues
// (id/titre manquant, prix ou quantité non numérique)
func parseItems(data string) []models.CartItem {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return []models.CartItem{}
	}

	items := make([]models.CartItem, 0, len(raw))
	for _, entry := range raw {
		var item models.CartItem
		if err := json.Unmarshal(entry, &item); err != nil {
			continue
		}
		if item.ProductID == "" || item.Title == "" || item.Quantity <= 0 || item.Price < 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}
