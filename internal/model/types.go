// Package model defines domain types used by the service.
package model

// ProductReference identifies a provider product together with one of its
// print variants. The variant gates access locally; only the product id is
// ever transmitted to the provider.
type ProductReference struct {
	ProductID int `json:"product_id"`
	VariantID int `json:"variant_id"`
}

// CallerContext carries the opaque identity a nonce is bound to. UserID is
// pass-through identity for the provider; the service does not enforce
// uniqueness, only presence.
type CallerContext struct {
	UserID    string `json:"user_id"`
	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address,omitempty"`
}

// DesignEvent is an inbound widget callback re-entering the system. Fields
// other than DesignID are opaque pass-through from the external design maker
// and may be absent depending on the callback type.
type DesignEvent struct {
	DesignID   string `json:"design_id"`
	TemplateID string `json:"template_id,omitempty"`
	ProductID  int    `json:"product_id,omitempty"`
	VariantID  int    `json:"variant_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Sequence   uint64 `json:"-"`
}

// Design represents the current stored state of a design, folded from events.
type Design struct {
	DesignID   string `json:"design_id"`
	TemplateID string `json:"template_id,omitempty"`
	ProductID  int    `json:"product_id,omitempty"`
	VariantID  int    `json:"variant_id,omitempty"`
	Status     string `json:"status,omitempty"`
}
