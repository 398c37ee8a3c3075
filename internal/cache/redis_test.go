// Copyright 2026 Arkham Advisor Contributors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisLayerRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	layer, err := NewRedisLayer(context.Background(), RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisLayer: %v", err)
	}
	defer layer.Close()

	ctx := context.Background()
	if err := layer.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := layer.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get returned (%q, %v), want (v, true)", got, ok)
	}

	if _, ok := layer.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unset key")
	}
}

func TestRedisLayerHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	layer, err := NewRedisLayer(context.Background(), RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisLayer: %v", err)
	}
	defer layer.Close()

	healthy, _ := layer.HealthCheck(context.Background())
	if !healthy {
		t.Fatalf("expected healthy redis layer")
	}

	mr.Close()
	healthy, _ = layer.HealthCheck(context.Background())
	if healthy {
		t.Fatalf("expected unhealthy after miniredis shutdown")
	}
}
