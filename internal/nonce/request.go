package nonce

import (
	"strconv"

	"github.com/printloom/designer-gateway/internal/model"
)

// Request is the exact payload shape sent to the provider's nonce endpoint.
// The variant id is a local gate only and is never transmitted; the provider
// accepts a single external product identifier.
type Request struct {
	ExternalCustomerID string `json:"external_customer_id"`
	ExternalProductID  string `json:"external_product_id"`
	IPAddress          string `json:"ip_address"`
	UserAgent          string `json:"user_agent"`
}

const defaultIPAddress = "127.0.0.1"

// BuildRequest maps a validated product reference and caller identity onto
// the provider payload. Identity errors take priority over product errors,
// so this check runs before any allow-list validation.
func BuildRequest(ref model.ProductReference, caller model.CallerContext) (Request, error) {
	if caller.UserID == "" || caller.UserAgent == "" {
		return Request{}, NewFailure(KindMissingRequiredField, "User ID and User Agent are required")
	}
	ip := caller.IPAddress
	if ip == "" {
		ip = defaultIPAddress
	}
	return Request{
		ExternalCustomerID: caller.UserID,
		ExternalProductID:  strconv.Itoa(ref.ProductID),
		IPAddress:          ip,
		UserAgent:          caller.UserAgent,
	}, nil
}
