package model

import "time"

// Product is a catalog item. Code is the business key; batches and sales
// reference products by code, never by pointer.
type Product struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
}
