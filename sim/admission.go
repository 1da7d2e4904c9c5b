package sim

// AdmissionPolicy decides whether a request may compete for a server slot.
// It runs before the capacity check; a rejection never touches slot accounting.
type AdmissionPolicy interface {
	Admit(req *Request, now int64) (admitted bool, reason DropReason)
}

// AlwaysAdmit admits all requests unconditionally.
type AlwaysAdmit struct{}

func (a *AlwaysAdmit) Admit(_ *Request, _ int64) (bool, DropReason) {
	return true, DropNone
}

// RoleRateLimiter applies an independent sliding-window limiter per request
// kind, so attackers can be limited more aggressively than normal clients.
type RoleRateLimiter struct {
	limiters map[RequestKind]*SlidingWindowLimiter
}

// NewRoleRateLimiter builds the per-role limiters from cfg.
func NewRoleRateLimiter(cfg RateLimitConfig) *RoleRateLimiter {
	return &RoleRateLimiter{
		limiters: map[RequestKind]*SlidingWindowLimiter{
			KindNormal: NewSlidingWindowLimiter(cfg.Normal.Limit, SecondsToTicks(cfg.Normal.Window)),
			KindAttack: NewSlidingWindowLimiter(cfg.Attack.Limit, SecondsToTicks(cfg.Attack.Window)),
		},
	}
}

// Admit consults the limiter for the request's kind. Kinds without a limiter pass.
func (r *RoleRateLimiter) Admit(req *Request, now int64) (bool, DropReason) {
	l, ok := r.limiters[req.Kind]
	if !ok || l.Allow(req.ClientID, now) {
		return true, DropNone
	}
	return false, DropRateLimited
}

// Limiter returns the limiter for kind, or nil.
func (r *RoleRateLimiter) Limiter(kind RequestKind) *SlidingWindowLimiter {
	return r.limiters[kind]
}

// Prune releases identities with empty windows in every limiter.
func (r *RoleRateLimiter) Prune(now int64) {
	for _, l := range r.limiters {
		l.Prune(now)
	}
}

// NewAdmissionPolicy returns the admission policy described by cfg.
func NewAdmissionPolicy(cfg RateLimitConfig) AdmissionPolicy {
	if !cfg.Enabled {
		return &AlwaysAdmit{}
	}
	return NewRoleRateLimiter(cfg)
}
