// Package beta declares types whose simple names clash with package alpha.
package beta

// Item is an order line.
type Item struct {
	Quantity int32 `json:"quantity"`
}
