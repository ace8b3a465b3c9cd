package dto

// AddressQueryItem is one entry of the batch coverage request body.
type AddressQueryItem struct {
	ID      string `json:"id" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// CoverageBatchRequest is the inbound payload: a JSON array of address items.
type CoverageBatchRequest []AddressQueryItem
