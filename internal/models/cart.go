package models

import "encoding/json"

// Customizations : données de personnalisation d'une ligne de panier
// (options choisies, photo uploadée, message, variante...). Opaque pour le store.
type Customizations map[string]interface{}

// Serialize retourne la forme canonique JSON (clés triées par encoding/json).
func (c Customizations) Serialize() string {
	if len(c) == 0 {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID               string         `json:"id,omitempty"`
	ProductID        string         `json:"productId"`
	Title            string         `json:"title"`
	Price            float64        `json:"price"`
	OriginalPrice    float64        `json:"originalPrice,omitempty"`
	Image            string         `json:"image,omitempty"`
	Images           []string       `json:"images,omitempty"`
	Quantity         int            `json:"quantity"`
	Category         string         `json:"category,omitempty"`
	Discount         float64        `json:"discount,omitempty"`
	Description      string         `json:"description,omitempty"`
	CareInstructions string         `json:"careInstructions,omitempty"`
	IsNewArrival     bool           `json:"isNewArrival,omitempty"`
	IsFeatured       bool           `json:"isFeatured,omitempty"`
	Customizations   Customizations `json:"customizations,omitempty"`
}

// SameLine : même produit ET mêmes personnalisations → même ligne de panier
func (ci CartItem) SameLine(other CartItem) bool {
	return ci.ProductID == other.ProductID &&
		ci.Customizations.Serialize() == other.Customizations.Serialize()
}

// ServerCartItem : forme renvoyée par l'API commerce en amont
type ServerCartItem struct {
	ID               string         `json:"_id"`
	ProductID        string         `json:"productId"`
	Title            string         `json:"title"`
	Price            float64        `json:"price"`
	Images           []string       `json:"images"`
	Quantity         int            `json:"quantity"`
	Category         string         `json:"category"`
	Discount         float64        `json:"discount"`
	Description      string         `json:"description"`
	CareInstructions string         `json:"careInstructions"`
	IsNewArrival     bool           `json:"isNewArrival"`
	IsFeatured       bool           `json:"isFeatured"`
	Customizations   Customizations `json:"customizations"`
}

// ToCartItem transforme un item serveur en item de panier local.
// L'image d'aperçu est la première de la galerie.
func (s ServerCartItem) ToCartItem() CartItem {
	image := ""
	if len(s.Images) > 0 {
		image = s.Images[0]
	}
	return CartItem{
		ID:               s.ID,
		ProductID:        s.ProductID,
		Title:            s.Title,
		Price:            s.Price,
		Image:            image,
		Images:           s.Images,
		Quantity:         s.Quantity,
		Category:         s.Category,
		Discount:         s.Discount,
		Description:      s.Description,
		CareInstructions: s.CareInstructions,
		IsNewArrival:     s.IsNewArrival,
		IsFeatured:       s.IsFeatured,
		Customizations:   s.Customizations,
	}
}
