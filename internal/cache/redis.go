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
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLayer is the optional L2 cache shared across advisor instances.
// It mirrors the pooling discipline of the platform's other Redis
// usage: a bounded pool with a short dial/read/write timeout so a
// degraded cache never stalls a request budget.
type RedisLayer struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig configures the shared connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisLayer dials Redis and verifies reachability with a ping.
func NewRedisLayer(ctx context.Context, cfg RedisConfig) (*RedisLayer, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to reach redis: %w", err)
	}

	return &RedisLayer{client: client, ttl: ttl}, nil
}

// Get returns the cached bytes for key, if present and unexpired.
func (r *RedisLayer) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value under key with the layer's configured TTL.
func (r *RedisLayer) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close releases the underlying connection pool.
func (r *RedisLayer) Close() error {
	return r.client.Close()
}

// HealthCheck reports reachability and round-trip latency.
func (r *RedisLayer) HealthCheck(ctx context.Context) (healthy bool, latency time.Duration) {
	start := time.Now()
	err := r.client.Ping(ctx).Err()
	return err == nil, time.Since(start)
}
