// Package widget models the client-side bootstrap sequence for the external
// design-maker: request a nonce, load the embed script at most once, then
// construct the widget with the nonce and initial product selection. The
// widget itself is an opaque external collaborator reached only through the
// interfaces below and the callback contract it emits.
package widget

import (
	"context"
	"sync"

	"github.com/printloom/designer-gateway/internal/catalog"
	"github.com/printloom/designer-gateway/internal/model"
	"github.com/printloom/designer-gateway/internal/obs"
)

// EmbedScriptURL is the provider-hosted bootstrap script.
const EmbedScriptURL = "https://static.printful.com/static/designer/embed.js"

// State is the bootstrap lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRequestingNonce
	StateNonceReady
	StateNonceFailed
	StateWidgetLoading
	StateWidgetReady
	StateWidgetLoadFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingNonce:
		return "requesting_nonce"
	case StateNonceReady:
		return "nonce_ready"
	case StateNonceFailed:
		return "nonce_failed"
	case StateWidgetLoading:
		return "widget_loading"
	case StateWidgetReady:
		return "widget_ready"
	case StateWidgetLoadFailed:
		return "widget_load_failed"
	default:
		return "unknown"
	}
}

// NonceSource issues an embed nonce for a product selection.
type NonceSource interface {
	Issue(ctx context.Context, ref model.ProductReference, caller model.CallerContext) (string, error)
}

// ScriptLoader injects the external embed script into the page.
type ScriptLoader interface {
	Load(ctx context.Context, url string) error
}

// Callbacks is the inbound event contract from the external widget. Payloads
// are opaque pass-through; the widget's internals are host-controlled.
type Callbacks struct {
	OnTemplateSaved      func(templateID string)
	OnDesignStatusUpdate func(status string)
	OnDesignSubmit       func(designID string, productID, variantID int)
}

// Factory constructs the widget instance once the script is available.
type Factory func(nonce string, ref model.ProductReference, cb Callbacks) error

// Bootstrap drives one page lifetime of the design-maker embed. The script
// load guard is a one-shot: invoking Start any number of times produces at
// most one script-load side effect.
type Bootstrap struct {
	nonces    NonceSource
	loader    ScriptLoader
	construct Factory
	caller    model.CallerContext
	callbacks Callbacks

	scriptOnce sync.Once
	scriptErr  error

	mu      sync.Mutex
	state   State
	lastErr error
}

// New returns a Bootstrap in StateIdle.
func New(nonces NonceSource, loader ScriptLoader, construct Factory, caller model.CallerContext, cb Callbacks) *Bootstrap {
	return &Bootstrap{
		nonces:    nonces,
		loader:    loader,
		construct: construct,
		caller:    caller,
		callbacks: cb,
		state:     StateIdle,
	}
}

// State returns the current lifecycle position.
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err returns the error recorded by the last failed transition, if any.
func (b *Bootstrap) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Fallbacks returns known-good selections for recovery after NonceFailed.
// Re-driving the machine with one of these replaces free-form retry.
func (b *Bootstrap) Fallbacks() []model.ProductReference {
	return catalog.Fallbacks()
}

// Start runs the sequence Idle -> RequestingNonce -> {NonceReady|NonceFailed}
// -> {WidgetLoading -> WidgetReady | WidgetLoadFailed} for the selection.
func (b *Bootstrap) Start(ctx context.Context, ref model.ProductReference) error {
	b.setState(StateRequestingNonce, nil)

	n, err := b.nonces.Issue(ctx, ref, b.caller)
	if err != nil {
		b.setState(StateNonceFailed, err)
		return err
	}
	b.setState(StateNonceReady, nil)

	b.setState(StateWidgetLoading, nil)
	b.scriptOnce.Do(func() {
		b.scriptErr = b.loader.Load(ctx, EmbedScriptURL)
	})
	if b.scriptErr != nil {
		b.setState(StateWidgetLoadFailed, b.scriptErr)
		return b.scriptErr
	}

	if err := b.construct(n, ref, b.callbacks); err != nil {
		b.setState(StateWidgetLoadFailed, err)
		return err
	}
	b.setState(StateWidgetReady, nil)
	return nil
}

func (b *Bootstrap) setState(s State, err error) {
	b.mu.Lock()
	b.state = s
	b.lastErr = err
	b.mu.Unlock()
	obs.Logger.Info("widget_bootstrap_state", "state", s.String())
}
