package models

import "time"

type WishlistItem struct {
	ProductID string    `json:"productId"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

type Wishlist struct {
	UserID string         `json:"user_id"`
	Items  []WishlistItem `json:"items"`
}
