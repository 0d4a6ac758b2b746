package advice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// fingerprintSpace namespaces breakdown fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("netpay/advice"))

// Fingerprint identifies a breakdown by the figures that appear in the prompt.
func Fingerprint(b *domain.TaxBreakdown) string {
	name := fmt.Sprintf("%d|%s|%s|%s",
		b.Year, b.GrossMonthlyPay.StringFixed(0), b.NetPay.StringFixed(0), b.TotalDeductions.StringFixed(0))
	return uuid.NewSHA1(fingerprintSpace, []byte(name)).String()
}

// CachedAdvisor memoises successful advice per breakdown fingerprint. Failures are not cached.
type CachedAdvisor struct {
	Next   Advisor
	Cache  Cache
	TTL    time.Duration
	Logger calculation.Logger
	// OnLookup, when set, is told whether each cache lookup hit.
	OnLookup func(hit bool)
}

func NewCachedAdvisor(next Advisor, cache Cache, ttl time.Duration, logger calculation.Logger) *CachedAdvisor {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &CachedAdvisor{Next: next, Cache: cache, TTL: ttl, Logger: logger}
}

func (a *CachedAdvisor) Advise(ctx context.Context, b *domain.TaxBreakdown) (string, error) {
	if b == nil || a.Cache == nil || a.TTL <= 0 {
		return a.Next.Advise(ctx, b)
	}

	key := Fingerprint(b)
	if text, ok, err := a.Cache.Get(ctx, key); err != nil {
		a.Logger.Warnf("advice cache read failed for %s: %v", key, err)
	} else if ok {
		a.Logger.Debugf("advice cache hit for %s", key)
		a.observe(true)
		return text, nil
	}
	a.observe(false)

	text, err := a.Next.Advise(ctx, b)
	if err != nil {
		return text, err
	}
	if err := a.Cache.Set(ctx, key, text, a.TTL); err != nil {
		a.Logger.Warnf("advice cache write failed for %s: %v", key, err)
	}
	return text, nil
}

func (a *CachedAdvisor) observe(hit bool) {
	if a.OnLookup != nil {
		a.OnLookup(hit)
	}
}
