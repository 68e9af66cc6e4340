package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/cache"
	"github.com/spec-kit/symposium-service/internal/config"
)

func TestNewRedisDisabledWithoutAddr(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	if r.Enabled() {
		t.Fatal("expected redis to be disabled")
	}
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error when disabled")
	}
	if r.Cache("svc:", zap.NewNop()).Enabled() {
		t.Fatal("cache helper should be disabled")
	}
	r.Close()
}

func TestNewRedisCacheUsesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Addr: mr.Addr(), CacheTTL: 3 * time.Minute}, zap.NewNop())
	t.Cleanup(r.Close)

	if err := r.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	helper := r.Cache("svc:", zap.NewNop())
	if err := helper.Set(context.Background(), cache.KeySymposiumList, []string{"a"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("svc:" + cache.KeySymposiumList); ttl != 3*time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
}
