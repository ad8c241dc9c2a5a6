// Package alpha declares types whose simple names clash with package beta.
package alpha

// Item is a catalog entry.
type Item struct {
	SKU string `json:"sku"`
}
