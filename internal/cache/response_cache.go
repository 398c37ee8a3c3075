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
	"encoding/json"
)

// ResponseCache layers a process-local LRU in front of an optional
// Redis instance. Every subagent shares this shape so a cache hit in
// one process instance can still be served from Redis in another.
type ResponseCache struct {
	local *LRU
	l2    *RedisLayer
}

// NewResponseCache builds a cache over the given local LRU, which
// carries its own capacity and TTL.
// l2 may be nil, in which case the cache degrades to local-only.
func NewResponseCache(local *LRU, l2 *RedisLayer) *ResponseCache {
	return &ResponseCache{local: local, l2: l2}
}

// GetJSON unmarshals a cached value for key into dst, checking the
// local LRU first and falling back to Redis.
func (c *ResponseCache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if raw, ok := c.local.Get(key); ok {
		return json.Unmarshal(raw, dst) == nil
	}
	if c.l2 == nil {
		return false
	}
	raw, ok := c.l2.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false
	}
	c.local.Set(key, raw)
	return true
}

// SetJSON marshals value and populates both cache levels for key.
func (c *ResponseCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.local.Set(key, raw)
	if c.l2 != nil {
		_ = c.l2.Set(ctx, key, raw)
	}
	return nil
}
