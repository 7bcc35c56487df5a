package llm

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
)

// NewProviders creates the primary and fallback clients from config.
// Both legs share the one credential.
func NewProviders(cfg *config.Config) (primary, fallback Provider, err error) {
	token, _ := cfg.Token()

	p, err := NewClient(cfg.Primary, token, cfg.Timeout)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid primary endpoint")
	}
	f, err := NewClient(cfg.Fallback, token, cfg.Timeout)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid fallback endpoint")
	}
	return p, f, nil
}
