package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/persistence"
	"github.com/bookshelfapp/bookshelf/internal/ratelimit"
	"github.com/bookshelfapp/bookshelf/internal/validation"
)

// LoginLimiterHandle wraps the login limiter with shutdown capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLoginLimiter provides the per-username login throttle.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &LoginLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
	}, nil
}

// ProvideAuthProvider provides the stub identity provider.
func ProvideAuthProvider(i do.Injector) (*auth.Provider, error) {
	adapter := do.MustInvoke[*persistence.Adapter](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return auth.NewProvider(adapter, limiter.KeyedRateLimiter, v, log.Logger)
}
