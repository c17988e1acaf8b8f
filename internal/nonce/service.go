package nonce

import (
	"context"
	"errors"

	"github.com/printloom/designer-gateway/internal/catalog"
	"github.com/printloom/designer-gateway/internal/model"
	"github.com/printloom/designer-gateway/internal/obs"
)

// ProviderClient performs the single outbound nonce call. Implementations
// must return a *Failure for every error.
type ProviderClient interface {
	RequestNonce(ctx context.Context, req Request) (string, error)
}

// Service orchestrates one nonce issuance: identity check, allow-list
// validation, payload construction, provider call. Stateless; safe for
// concurrent use.
type Service struct {
	client ProviderClient
}

// NewService returns a Service backed by the given provider client.
func NewService(client ProviderClient) *Service {
	return &Service{client: client}
}

// Issue validates the selection and exchanges it for a provider nonce. A
// zero VariantID means the caller supplied no variant; the product is then
// gated alone, since the variant is informational and never transmitted.
// Validation failures never reach the provider.
func (s *Service) Issue(ctx context.Context, ref model.ProductReference, caller model.CallerContext) (string, error) {
	req, err := BuildRequest(ref, caller)
	if err != nil {
		return "", s.reject(err)
	}

	if ref.VariantID == 0 {
		err = catalog.ValidateProduct(ref.ProductID)
	} else {
		err = catalog.Validate(ref.ProductID, ref.VariantID)
	}
	if err != nil {
		return "", s.reject(mapCatalogError(err))
	}

	n, err := s.client.RequestNonce(ctx, req)
	if err != nil {
		return "", s.reject(err)
	}
	obs.NonceRequests.WithLabelValues("ok").Inc()
	return n, nil
}

func (s *Service) reject(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		obs.NonceRequests.WithLabelValues(string(f.Kind)).Inc()
		obs.Logger.Warn("nonce_rejected", "kind", string(f.Kind), "message", f.Message)
		return f
	}
	obs.NonceRequests.WithLabelValues(string(KindProviderUnavailable)).Inc()
	return &Failure{Kind: KindProviderUnavailable, Message: err.Error()}
}

func mapCatalogError(err error) error {
	var ce *catalog.Error
	if !errors.As(err, &ce) {
		return err
	}
	f := NewFailure(KindInvalidProduct, ce.Message)
	switch ce.Reason {
	case catalog.ReasonMissingProduct:
		f.Kind = KindMissingProduct
	case catalog.ReasonInvalidProduct:
		f.Kind = KindInvalidProduct
		f.ValidProducts = catalog.DisplayNames()
	case catalog.ReasonInvalidVariant:
		f.Kind = KindInvalidVariant
	}
	return f
}
