package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory is the fixed category enum for catalog products.
type ProductCategory string

const (
	CategoryTextiles  ProductCategory = "textiles"
	CategoryPottery   ProductCategory = "pottery"
	CategoryJewelry   ProductCategory = "jewelry"
	CategoryWoodwork  ProductCategory = "woodwork"
	CategoryMetalwork ProductCategory = "metalwork"
	CategoryPainting  ProductCategory = "painting"
	CategoryLeather   ProductCategory = "leather"
	CategoryOther     ProductCategory = "other"
)

// IsValid checks if the ProductCategory is a valid value.
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryTextiles, CategoryPottery, CategoryJewelry, CategoryWoodwork,
		CategoryMetalwork, CategoryPainting, CategoryLeather, CategoryOther:
		return true
	default:
		return false
	}
}

// ProductStatus is the lifecycle status of a product.
type ProductStatus string

const (
	ProductDraft        ProductStatus = "draft"
	ProductActive       ProductStatus = "active"
	ProductSold         ProductStatus = "sold"
	ProductInactive     ProductStatus = "inactive"
	ProductDiscontinued ProductStatus = "discontinued"
)

// IsValid checks if the ProductStatus is a valid value.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductDraft, ProductActive, ProductSold, ProductInactive, ProductDiscontinued:
		return true
	default:
		return false
	}
}

// Inventory tracks sellable stock. ReservedQuantity is the portion allocated
// to unfulfilled orders, subtracted from available-to-sell stock.
type Inventory struct {
	Quantity         int  `json:"quantity"`
	IsUnlimited      bool `json:"isUnlimited"`
	ReservedQuantity int  `json:"reservedQuantity"`
}

// Available returns the unreserved stock.
func (inv Inventory) Available() int {
	return inv.Quantity - inv.ReservedQuantity
}

// Review is a buyer review embedded in a product.
type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductStats holds engagement counters for a product.
type ProductStats struct {
	Views  int `json:"views"`
	Likes  int `json:"likes"`
	Shares int `json:"shares"`
	Saves  int `json:"saves"`
}

// Product is a catalog item owned by exactly one artisan.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	ArtisanID   uuid.UUID       `json:"artisanId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    ProductCategory `json:"category"`
	Price       float64         `json:"price"` // >= 0
	Images      []string        `json:"images"`

	Inventory Inventory `json:"inventory"`

	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
	TotalReviews  int      `json:"totalReviews"`

	Stats  ProductStats  `json:"stats"`
	Status ProductStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReserveInventory allocates qty units to an unfulfilled order. Reports
// false, without mutating, when fewer than qty unreserved units exist.
// Unlimited inventory always reserves.
func (p *Product) ReserveInventory(qty int) bool {
	if qty <= 0 {
		return false
	}
	if !p.Inventory.IsUnlimited && p.Inventory.Available() < qty {
		return false
	}
	p.Inventory.ReservedQuantity += qty

	return true
}

// ReleaseInventory returns qty units to the sellable pool, clamping the
// reserved counter at 0.
func (p *Product) ReleaseInventory(qty int) {
	p.Inventory.ReservedQuantity -= qty
	if p.Inventory.ReservedQuantity < 0 {
		p.Inventory.ReservedQuantity = 0
	}
}

// RecomputeRatings rebuilds the derived rating aggregates from the review
// array. AverageRating is 0 when there are no reviews.
func (p *Product) RecomputeRatings() {
	p.TotalReviews = len(p.Reviews)
	if p.TotalReviews == 0 {
		p.AverageRating = 0

		return
	}

	sum := 0
	for _, review := range p.Reviews {
		sum += review.Rating
	}
	p.AverageRating = float64(sum) / float64(p.TotalReviews)
}
