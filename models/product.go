package models

import "github.com/shopspring/decimal"

// Product represents a catalog entry that can be sold at the counter
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductRequest represents the request body for creating or updating a product.
// Price travels as a string so that amounts like "2.50" keep their exact value.
// Example: {"name": "Empanada", "price": "2.50"}
type ProductRequest struct {
	Name  string `json:"name" form:"name"`
	Price string `json:"price" form:"price"`
}

// ProductListResponse represents the response for listing the catalog
// Example response:
// {
//   "products": [
//     {"id": 1, "name": "Empanada", "price": "2.5"}
//   ]
// }
type ProductListResponse struct {
	Products []Product `json:"products"`
}
