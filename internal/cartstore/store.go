package cartstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"fleura_storefront/internal/auth"
	"fleura_storefront/internal/cartapi"
	"fleura_storefront/internal/models"
)

// Store : source de vérité du panier de la session courante.
// Invité → le panier vit dans la sauvegarde locale. Authentifié → le
// serveur fait autorité, chaque mutation remplace l'état en mémoire par
// le panier renvoyé, puis le sauvegarde localement en backup.

var (
	// ErrInvalidItem : item mal formé passé à AddToCart
	ErrInvalidItem = errors.New("article de panier invalide")
	// ErrNotAuthenticated : opération réservée aux utilisateurs connectés
	ErrNotAuthenticated = errors.New("veuillez vous connecter pour gérer votre panier")
)

// RemoteClient : opérations panier côté API commerce (cartapi.Client)
type RemoteClient interface {
	Get(ctx context.Context, token string) (*cartapi.CartResponse, error)
	Add(ctx context.Context, token string, req cartapi.AddRequest) (*cartapi.CartResponse, error)
	UpdateQuantity(ctx context.Context, token, itemID string, quantity int) (*cartapi.CartResponse, error)
	Remove(ctx context.Context, token, itemID string) (*cartapi.CartResponse, error)
	Clear(ctx context.Context, token string) (*cartapi.CartResponse, error)
}

// LocalStore : persistance locale best-effort (localstore.Store)
type LocalStore interface {
	Load(ctx context.Context, userID string) []models.CartItem
	Save(ctx context.Context, userID string, items []models.CartItem) bool
	MigrateLegacy(ctx context.Context, userID string) []models.CartItem
}

type Store struct {
	mu      sync.Mutex
	items   []models.CartItem
	loading bool

	local  LocalStore
	remote RemoteClient
	state  auth.StateProvider
}

func New(local LocalStore, remote RemoteClient, state auth.StateProvider) *Store {
	return &Store{
		items:  []models.CartItem{},
		local:  local,
		remote: remote,
		state:  state,
	}
}

// AddToCart ajoute un article. Invité : fusion en mémoire par
// (productId, personnalisations), puis sauvegarde locale. Authentifié :
// le serveur fusionne, son panier remplace l'état local.
func (s *Store) AddToCart(ctx context.Context, item models.CartItem) error {
	if err := validateItem(item); err != nil {
		return err
	}

	sess := s.state.Session(ctx)

	if sess.Authenticated {
		s.setLoading(true)
		defer s.setLoading(false)

		price := item.Price
		resp, err := s.remote.Add(ctx, sess.Token, cartapi.AddRequest{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			Customizations: item.Customizations,
			// Prix calculé côté storefront (remise/personnalisation incluses)
			CustomPrice: &price,
		})
		if err != nil {
			log.Printf("❌ Ajout au panier distant échoué: %v", err)
			return err
		}
		s.replace(fromServer(resp.Cart))
		s.local.Save(ctx, sess.UserID, s.Items())
		return nil
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].SameLine(item) {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	items := snapshot(s.items)
	s.mu.Unlock()

	s.local.Save(ctx, sess.UserID, items)
	return nil
}

// RemoveFromCart retire une ligne par identifiant produit.
// Réservé aux utilisateurs connectés : un invité doit se connecter
// pour gérer les quantités (comportement voulu côté produit).
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.removeLine(ctx, productID)
}

// RemoveItem retire une ligne par identifiant de ligne serveur
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	return s.removeLine(ctx, itemID)
}

func (s *Store) removeLine(ctx context.Context, id string) error {
	sess := s.state.Session(ctx)
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.remote.Remove(ctx, sess.Token, id)
	if err != nil {
		log.Printf("❌ Suppression de la ligne %s échouée: %v", id, err)
		return err
	}
	s.replace(fromServer(resp.Cart))
	s.local.Save(ctx, sess.UserID, s.Items())
	return nil
}

// UpdateItemQuantity modifie la quantité d'une ligne. Quantité nulle ou
// négative → suppression de la ligne.
func (s *Store) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}

	sess := s.state.Session(ctx)
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.remote.UpdateQuantity(ctx, sess.Token, itemID, quantity)
	if err != nil {
		log.Printf("❌ Mise à jour de la ligne %s échouée: %v", itemID, err)
		return err
	}
	s.replace(fromServer(resp.Cart))
	s.local.Save(ctx, sess.UserID, s.Items())
	return nil
}

// ClearCart vide le panier côté serveur puis localement
func (s *Store) ClearCart(ctx context.Context) error {
	sess := s.state.Session(ctx)
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.remote.Clear(ctx, sess.Token); err != nil {
		log.Printf("❌ Vidage du panier échoué: %v", err)
		return err
	}
	s.replace([]models.CartItem{})
	s.local.Save(ctx, sess.UserID, []models.CartItem{})
	return nil
}

// LoadCart charge le panier de la session. Authentifié : depuis le
// serveur, avec repli sur le backup local en cas de panne réseau.
// Invité : depuis la sauvegarde locale, avec migration unique de
// l'ancien panier non préfixé.
func (s *Store) LoadCart(ctx context.Context, userID string) error {
	sess := s.state.Session(ctx)

	if sess.Authenticated {
		s.setLoading(true)
		defer s.setLoading(false)

		resp, err := s.remote.Get(ctx, sess.Token)
		if err != nil {
			// Dégradation : le backup local vaut mieux qu'une erreur UI
			log.Printf("⚠️ Chargement distant échoué, repli sur le backup local: %v", err)
			s.replace(s.local.Load(ctx, sess.UserID))
			return nil
		}
		s.replace(fromServer(resp.Cart))
		s.local.Save(ctx, sess.UserID, s.Items())
		return nil
	}

	key := userID
	if key == "" {
		key = sess.UserID
	}

	items := s.local.Load(ctx, key)
	if len(items) == 0 && key != "" {
		items = s.local.MigrateLegacy(ctx, key)
	}
	s.replace(items)
	return nil
}

// SaveCart persiste un panier donné en local (best-effort)
func (s *Store) SaveCart(ctx context.Context, items []models.CartItem, userID string) bool {
	if userID == "" {
		userID = s.state.Session(ctx).UserID
	}
	return s.local.Save(ctx, userID, items)
}

// --- Sélecteurs ---

// Items retourne une copie de l'état courant
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.items)
}

// ItemCount : somme des quantités de toutes les lignes
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subtotal : somme des prix*quantité (prix déjà finaux par ligne)
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// --- Interne ---

// Le mutex protège la mémoire, pas la cohérence inter-appels : deux
// mutations distantes simultanées restent en concurrence et la dernière
// réponse arrivée écrase l'état (pas de file de mutations par panier).
func (s *Store) replace(items []models.CartItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Flag simple, pas un compteur : des appels qui se chevauchent peuvent
// le remettre à faux avant la fin du dernier
func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func validateItem(item models.CartItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("%w: productId manquant", ErrInvalidItem)
	}
	if item.Title == "" {
		return fmt.Errorf("%w: titre manquant", ErrInvalidItem)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: prix invalide", ErrInvalidItem)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantité invalide", ErrInvalidItem)
	}
	return nil
}

func fromServer(serverItems []models.ServerCartItem) []models.CartItem {
	items := make([]models.CartItem, 0, len(serverItems))
	for _, si := range serverItems {
		items = append(items, si.ToCartItem())
	}
	return items
}

func snapshot(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
