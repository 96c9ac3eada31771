package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrReviewNotFound = errors.New("review not found")

// Product is a catalog item.
type Product struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Image             string  `json:"image,omitempty"`
	Price             float64 `json:"price"`
	MinQuantity       int     `json:"min_quantity"`
	AvailableQuantity int     `json:"available_quantity"`
}

// Review is a customer testimonial.
type Review struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
