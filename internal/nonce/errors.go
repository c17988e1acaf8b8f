// Package nonce implements the issuance flow for design-maker embed nonces:
// caller identity checks, allow-list validation, provider invocation, and
// the stable failure taxonomy exposed to callers.
package nonce

import (
	"encoding/json"
	"net/http"
)

// Kind is a stable machine-readable failure classification. Every failure
// leaving the issuance flow carries exactly one Kind.
type Kind string

const (
	KindMissingRequiredField        Kind = "missing_required_field"
	KindMissingProduct              Kind = "missing_product"
	KindInvalidProduct              Kind = "invalid_product"
	KindInvalidVariant              Kind = "invalid_variant"
	KindCredentialNotConfigured     Kind = "credential_not_configured"
	KindProviderContractViolation   Kind = "provider_contract_violation"
	KindInvalidProductOrCredentials Kind = "invalid_product_or_credentials"
	KindProviderError               Kind = "provider_error"
	KindProviderUnavailable         Kind = "provider_unavailable"
)

// HTTPStatus maps a failure kind onto the transport status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingRequiredField, KindMissingProduct, KindInvalidProduct,
		KindInvalidVariant, KindInvalidProductOrCredentials:
		return http.StatusBadRequest
	case KindCredentialNotConfigured, KindProviderContractViolation:
		return http.StatusInternalServerError
	case KindProviderError, KindProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Label is the short caller-facing error string for the kind.
func (k Kind) Label() string {
	switch k {
	case KindMissingRequiredField:
		return "Missing required fields"
	case KindMissingProduct:
		return "Missing product ID"
	case KindInvalidProduct:
		return "Invalid product ID"
	case KindInvalidVariant:
		return "Invalid variant ID"
	case KindCredentialNotConfigured:
		return "API key not configured"
	case KindProviderContractViolation:
		return "Provider did not return a nonce"
	case KindInvalidProductOrCredentials:
		return "Invalid product ID or API key"
	case KindProviderError:
		return "Failed to generate nonce"
	case KindProviderUnavailable:
		return "ProviderUnavailable"
	default:
		return string(k)
	}
}

// Failure is the typed error for every rejected issuance. Details holds the
// provider's raw error payload for operator diagnostics; it never contains
// credential material because the credential travels only in request headers.
type Failure struct {
	Kind          Kind
	Message       string
	ValidProducts map[string]string
	Details       json.RawMessage
}

func (f *Failure) Error() string { return f.Message }

// NewFailure builds a Failure with a kind and caller-facing message.
func NewFailure(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}
