package ownerid

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrAssignExhausted is returned when the provider cannot produce a unique
// identifier within its attempt budget. This is the pathological
// clock/collision case; it never downgrades to a non-unique identifier.
var ErrAssignExhausted = errors.New("owner identifier assignment exhausted retry attempts")

// DefaultMaxAttempts bounds identifier generation retries.
const DefaultMaxAttempts = 5

// ConflictFunc reports whether a candidate identifier is already in use.
// Implementations typically query the owner table's unique index.
type ConflictFunc func(ID) (bool, error)

// Provider assigns identifiers to owner entities on first persistence.
//
// Generation is collision-free for practical purposes; the retry loop only
// exists to absorb clock anomalies surfaced by a unique-constraint probe.
type Provider struct {
	maxAttempts int
	logger      hclog.Logger
	generate    func() (ID, error)
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithMaxAttempts overrides the retry budget.
func WithMaxAttempts(n int) ProviderOption {
	return func(p *Provider) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithLogger sets the provider's logger.
func WithLogger(l hclog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = l
	}
}

// withGenerator replaces the ID source. Test hook.
func withGenerator(fn func() (ID, error)) ProviderOption {
	return func(p *Provider) {
		p.generate = fn
	}
}

// NewProvider creates a Provider with the default attempt budget.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		maxAttempts: DefaultMaxAttempts,
		logger:      hclog.NewNullLogger(),
		generate:    New,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Assign ensures owner carries an identifier, generating one if needed.
//
// An identifier that is already set is immutable: Assign returns it
// unchanged and never regenerates. When inUse is non-nil each candidate is
// probed for uniqueness before being applied; after the attempt budget is
// spent Assign fails with ErrAssignExhausted.
func (p *Provider) Assign(owner Owner, inUse ConflictFunc) (ID, error) {
	if owner == nil {
		return ID{}, fmt.Errorf("owner cannot be nil")
	}
	if existing := owner.DocumentOwnerID(); !existing.IsZero() {
		return existing, nil
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		candidate, err := p.generate()
		if err != nil {
			return ID{}, fmt.Errorf("failed to generate owner identifier: %w", err)
		}

		if inUse != nil {
			taken, err := inUse(candidate)
			if err != nil {
				return ID{}, fmt.Errorf("failed to probe owner identifier uniqueness: %w", err)
			}
			if taken {
				p.logger.Warn("owner identifier collision, retrying",
					"candidate", candidate.String(),
					"attempt", attempt,
					"max_attempts", p.maxAttempts,
				)
				continue
			}
		}

		owner.SetDocumentOwnerID(candidate)
		return candidate, nil
	}

	return ID{}, fmt.Errorf("%w (after %d attempts)", ErrAssignExhausted, p.maxAttempts)
}
