package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, like the source catalog.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is keyed by the catalog's own id; it is never generated locally.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	Image       string          `db:"image" json:"image"`
	Rating      *Rating         `db:"-" json:"rating"`
}

// Rating is owned one-to-one by a Product and deleted with it.
type Rating struct {
	ID        int64   `db:"id" json:"id"`
	Rate      float64 `db:"rate" json:"rate"`
	Count     int     `db:"count" json:"count"`
	ProductID int     `db:"product_id" json:"productId"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int   `json:"imported"` // DTOs considered after the limit
	Saved    int64 `json:"saved"`    // rows written by the commit
}
