package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"gamecodeshop/internal/domain/repository"
)

const omiseKeysCacheKey = "omise"

type OmiseKeys struct {
	PublicKey string
	SecretKey string
	Mode      string
}

// IsTestMode reports whether the keys talk to Omise's test environment.
func (k OmiseKeys) IsTestMode() bool {
	if k.Mode != "" {
		return k.Mode == "test"
	}
	return strings.HasPrefix(k.SecretKey, "skey_test_")
}

// OmiseKeyLoader resolves Omise keys from settings/omise, falling back to
// the environment, and caches the result for ttl.
type OmiseKeyLoader struct {
	settings repository.SettingsRepository
	fallback OmiseKeys
	cache    *expirable.LRU[string, OmiseKeys]
}

func NewOmiseKeyLoader(settings repository.SettingsRepository, fallback OmiseKeys, ttl time.Duration) *OmiseKeyLoader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OmiseKeyLoader{
		settings: settings,
		fallback: fallback,
		cache:    expirable.NewLRU[string, OmiseKeys](1, nil, ttl),
	}
}

func (l *OmiseKeyLoader) Load(ctx context.Context) (OmiseKeys, error) {
	if keys, ok := l.cache.Get(omiseKeysCacheKey); ok {
		return keys, nil
	}

	keys := l.fallback
	if l.settings != nil {
		stored, err := l.settings.GetOmiseSettings(ctx)
		if err != nil {
			return OmiseKeys{}, fmt.Errorf("load omise settings: %w", err)
		}
		if stored != nil {
			if stored.PublicKey != "" {
				keys.PublicKey = stored.PublicKey
			}
			if stored.SecretKey != "" {
				keys.SecretKey = stored.SecretKey
			}
			if stored.Mode != "" {
				keys.Mode = stored.Mode
			}
		}
	}

	if keys.SecretKey == "" {
		return OmiseKeys{}, fmt.Errorf("omise secret key is not configured")
	}

	l.cache.Add(omiseKeysCacheKey, keys)
	return keys, nil
}

// Invalidate drops the cached keys so the next Load re-reads settings.
func (l *OmiseKeyLoader) Invalidate() {
	l.cache.Purge()
}
