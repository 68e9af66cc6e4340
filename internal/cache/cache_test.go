package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type item struct {
	Name string `json:"name"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheHelper(client, "test:", time.Minute, zap.NewNop()), mr
}

func TestSetGetDelete(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, KeySymposium("s1"), item{Name: "GopherCon"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("test:symposium:id:s1") {
		t.Fatal("expected prefixed key in redis")
	}
	if ttl := mr.TTL("test:symposium:id:s1"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}

	var got item
	if err := helper.Get(ctx, KeySymposium("s1"), &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "GopherCon" {
		t.Fatalf("got %+v", got)
	}

	helper.SafeDelete(ctx, KeySymposium("s1"))
	if err := helper.Get(ctx, KeySymposium("s1"), &got); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestRememberLoadsOnce(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "a"}, {Name: "b"}}, nil
	}
	for i := 0; i < 3; i++ {
		got, err := Remember(ctx, helper, KeySymposiumList, load)
		if err != nil {
			t.Fatalf("remember: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %+v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times", calls)
	}
}

func TestDisabledHelperFallsThrough(t *testing.T) {
	helper := NewCacheHelper(nil, "test:", time.Minute, nil)
	ctx := context.Background()

	if helper.Enabled() {
		t.Fatal("nil client should disable cache")
	}
	if err := helper.Set(ctx, "k", item{}); err != nil {
		t.Fatalf("set on disabled cache: %v", err)
	}
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Remember(ctx, helper, "k", func(context.Context) (item, error) {
			calls++
			return item{Name: "x"}, nil
		})
		if err != nil {
			t.Fatalf("remember: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("loader called %d times", calls)
	}
}
