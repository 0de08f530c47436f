package middleware

import (
	"sync"

	"tenantnotes/internal/domain/entity"
	"tenantnotes/internal/utils"
	"tenantnotes/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type planLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPlanRateLimit throttles each authenticated user at their plan's
// per-minute API rate. Must run after the auth middleware.
func NewPlanRateLimit() echo.MiddlewareFunc {
	pl := &planLimiters{limiters: make(map[string]*rate.Limiter)}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, cerr := utils.GetUserFromContext(c)
			if cerr != nil {
				return c.JSON(cerr.Code(), cerr)
			}

			if !pl.allow(user) {
				limited := apierror.RateLimitedError
				return c.JSON(limited.Code(), limited)
			}
			return next(c)
		}
	}
}

func (p *planLimiters) allow(user *entity.User) bool {
	perMinute := user.Subscription.Limits().APIRateLimit

	p.mu.Lock()
	limiter, ok := p.limiters[user.ID]
	if !ok || limiter.Burst() != perMinute {
		// First sighting, or the tenant changed plans
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
		p.limiters[user.ID] = limiter
	}
	p.mu.Unlock()

	return limiter.Allow()
}
