package models

import "time"

// HeroSlide : slide du carrousel d'accueil, géré par le CMS en amont
type HeroSlide struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image"`
	CTALabel string `json:"ctaLabel,omitempty"`
	CTALink  string `json:"ctaLink,omitempty"`
	Order    int    `json:"order"`
}

// Offer : offre promotionnelle, éventuellement affichée en popup
type Offer struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Image        string     `json:"image,omitempty"`
	DiscountCode string     `json:"discountCode,omitempty"`
	ShowAsPopup  bool       `json:"showAsPopup"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

type HomeContent struct {
	Slides []HeroSlide `json:"slides"`
	Offers []Offer     `json:"offers"`
}
