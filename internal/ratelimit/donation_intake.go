package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/sevasetu/sevasetu/internal/config"
)

const keyDonationIntake = "donation:intake:ip:%s"

// DonationIntakeLimiter throttles unauthenticated donation submissions per
// client IP. A nil limiter means the feature is disabled and everything is
// allowed.
type DonationIntakeLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewDonationIntakeLimiter(cfg config.Config) (*DonationIntakeLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.DonationRate <= 0 || limitCfg.DonationBurst <= 0 {
		return nil, errors.New("donation rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
	})

	return &DonationIntakeLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.DonationRate,
		burst:   limitCfg.DonationBurst,
	}, nil
}

func (l *DonationIntakeLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *DonationIntakeLimiter) Allow(ctx context.Context, clientIP string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyDonationIntake, strings.TrimSpace(clientIP))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
