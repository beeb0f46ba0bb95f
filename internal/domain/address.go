package domain

// ShippingAddress is a saved delivery address. At most one address per user
// carries the default flag.
type ShippingAddress struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"isDefault"`
}

// DeliveryLocation is the transient "deliver to my current position"
// override. It is never persisted and is independent of saved addresses.
type DeliveryLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	PlaceName string  `json:"placeName,omitempty"`
}
