package domain

import "time"

// ShippingDetails is the checkout form. Every field is required.
type ShippingDetails struct {
	FirstName  string `json:"first_name" validate:"notblank"`
	LastName   string `json:"last_name" validate:"notblank"`
	Address    string `json:"address" validate:"notblank"`
	City       string `json:"city" validate:"notblank"`
	State      string `json:"state" validate:"notblank"`
	ZIP        string `json:"zip" validate:"notblank"`
	Country    string `json:"country" validate:"notblank"`
	CardNumber string `json:"card_number" validate:"notblank"`
	NameOnCard string `json:"name_on_card" validate:"notblank"`
	Expiry     string `json:"expiry" validate:"required,card_expiry"`
	CVC        string `json:"cvc" validate:"required,numeric,min=3,max=4"`
}

// OrderConfirmation is returned by a simulated checkout. It is never stored.
type OrderConfirmation struct {
	OrderID  string     `json:"order_id"`
	Items    []CartItem `json:"items"`
	Total    int64      `json:"total"`
	PlacedAt time.Time  `json:"placed_at"`
}
