// Package catalog holds the fixed allow-list of products and variants
// permitted to request a design-maker nonce. The catalog is the sole source
// of truth for nonce gating; the provider's live catalog is display-only.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/printloom/designer-gateway/internal/model"
)

// Product describes one allow-listed provider product.
type Product struct {
	ID          int
	DisplayName string
	VariantIDs  []int
}

// Reason classifies why a product/variant pair was rejected.
type Reason string

const (
	ReasonMissingProduct Reason = "missing_product"
	ReasonInvalidProduct Reason = "invalid_product"
	ReasonInvalidVariant Reason = "invalid_variant"
)

// Error is a validation failure with a caller-facing message that enumerates
// the valid alternatives.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string { return e.Message }

// known is immutable after init. The ids mirror the provider's catalog
// entries this storefront is licensed to embed.
var known = map[int]Product{
	83:  {ID: 83, DisplayName: "Unisex Hoodie", VariantIDs: []int{4012}},
	233: {ID: 233, DisplayName: "Men's Premium T-Shirt", VariantIDs: []int{7853}},
	278: {ID: 278, DisplayName: "Women's Relaxed T-Shirt", VariantIDs: []int{9627}},
}

// Lookup returns the allow-listed product for id.
func Lookup(id int) (Product, bool) {
	p, ok := known[id]
	return p, ok
}

// ProductIDs returns the allow-listed product ids in ascending order.
func ProductIDs() []int {
	ids := make([]int, 0, len(known))
	for id := range known {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// DisplayNames returns productId -> displayName keyed by decimal string,
// suitable for embedding in error payloads.
func DisplayNames() map[string]string {
	m := make(map[string]string, len(known))
	for id, p := range known {
		m[fmt.Sprintf("%d", id)] = p.DisplayName
	}
	return m
}

// Fallbacks returns known-good product/variant pairs for recovery flows,
// ordered by product id.
func Fallbacks() []model.ProductReference {
	refs := make([]model.ProductReference, 0, len(known))
	for _, id := range ProductIDs() {
		p := known[id]
		refs = append(refs, model.ProductReference{ProductID: p.ID, VariantID: p.VariantIDs[0]})
	}
	return refs
}

// ValidateProduct checks the product id alone. A zero id means the caller
// supplied no product.
func ValidateProduct(productID int) error {
	if productID == 0 {
		return &Error{
			Reason:  ReasonMissingProduct,
			Message: "A product ID is required to generate a nonce",
		}
	}
	if _, ok := known[productID]; !ok {
		return &Error{
			Reason: ReasonInvalidProduct,
			Message: fmt.Sprintf("The product ID '%d' is not supported. Please use one of the following IDs: %s",
				productID, joinIDs(ProductIDs())),
		}
	}
	return nil
}

// Validate checks a full product/variant pair. Both ids must be present and
// registered; values pass through unchanged on success.
func Validate(productID, variantID int) error {
	if err := ValidateProduct(productID); err != nil {
		return err
	}
	p := known[productID]
	for _, v := range p.VariantIDs {
		if v == variantID {
			return nil
		}
	}
	return &Error{
		Reason: ReasonInvalidVariant,
		Message: fmt.Sprintf("Invalid variant ID (%d) for product %d. Please use one of the following variants: %s",
			variantID, productID, joinIDs(p.VariantIDs)),
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
