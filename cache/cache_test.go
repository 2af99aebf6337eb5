package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestKeyNormalizes(t *testing.T) {
	if got := Key("toplist", " RV ", "BTech"); got != "toplist:rv:btech" {
		t.Errorf("unexpected key %q", got)
	}
	if Key("toplist", "a:b", "c") == Key("toplist", "a", "b:c") {
		t.Errorf("separator inside a part must not collide")
	}
}

func TestNoopAlwaysMisses(t *testing.T) {
	var c Cache = Noop{}
	if err := c.SetJSON(context.Background(), "k", []int{1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var dest []int
	if err := c.GetJSON(context.Background(), "k", &dest); !errors.Is(err, ErrMiss) {
		t.Errorf("expected miss, got %v", err)
	}
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis"); err == nil {
		t.Errorf("expected url parse error")
	}
}
