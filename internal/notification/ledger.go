// Copyright 2026 The Clinicore Authors
//
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

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ackKeyPrefix = "notification:ack:"

// RedisLedger implements Ledger on Redis using SET NX with a TTL, so the
// dedupe window bounds memory instead of growing forever.
type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLedger creates a Redis-backed acknowledgment ledger.
func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

// Acknowledge records the (notification, device) pair. SETNX makes the
// first writer win; every later retry observes the existing key.
func (l *RedisLedger) Acknowledge(ctx context.Context, notificationID, deviceID string) (bool, error) {
	key := fmt.Sprintf("%s%s:%s", ackKeyPrefix, notificationID, deviceID)
	first, err := l.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record acknowledgment: %w", err)
	}
	return first, nil
}
