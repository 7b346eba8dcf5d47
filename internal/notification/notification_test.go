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
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/audit"
)

type fakeSender struct {
	name string
	err  error
	sent []Notification
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(_ context.Context, n Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func newTestLedger(t *testing.T, ttl time.Duration) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLedger(rdb, ttl), mr
}

// TestSendFanOut
//
// Purpose: verify that a notification reaches every registered transport.
//
// Scope: Service.Send
//
// Expected: both transports observe the same notification payload.
func TestSendFanOut(t *testing.T) {
	fcm := &fakeSender{name: "fcm"}
	apns := &fakeSender{name: "apns"}
	svc := NewService(nil, audit.NewSlogLogger(), fcm, apns)

	svc.Send(context.Background(), Notification{
		ID:         "n-1",
		BusinessID: "clinic-1",
		SubjectID:  "subj-1",
		Title:      "Appointment reminder",
	})

	require.Len(t, fcm.sent, 1)
	require.Len(t, apns.sent, 1)
	assert.Equal(t, "n-1", fcm.sent[0].ID)
	assert.False(t, fcm.sent[0].CreatedAt.IsZero())
}

// TestSendFailingTransportDoesNotStopOthers
//
// Purpose: verify fan-out is best effort.
//
// Scope: Service.Send
//
// Expected: a transport error on the first sender does not prevent
// delivery through the second.
func TestSendFailingTransportDoesNotStopOthers(t *testing.T) {
	broken := &fakeSender{name: "fcm", err: errors.New("fcm: unavailable")}
	apns := &fakeSender{name: "apns"}
	svc := NewService(nil, audit.NewSlogLogger(), broken, apns)

	svc.Send(context.Background(), Notification{ID: "n-2", SubjectID: "subj-1"})

	assert.Len(t, apns.sent, 1)
}

// TestAcknowledgeIdempotent
//
// Purpose: verify the SETNX ledger reports only the first acknowledgment
// per (notification, device) pair.
//
// Scope: RedisLedger.Acknowledge
//
// Expected: first call true, retry false, a different device true again.
func TestAcknowledgeIdempotent(t *testing.T) {
	ledger, _ := newTestLedger(t, time.Hour)
	ctx := context.Background()

	first, err := ledger.Acknowledge(ctx, "n-1", "device-a")
	require.NoError(t, err)
	assert.True(t, first)

	retry, err := ledger.Acknowledge(ctx, "n-1", "device-a")
	require.NoError(t, err)
	assert.False(t, retry)

	other, err := ledger.Acknowledge(ctx, "n-1", "device-b")
	require.NoError(t, err)
	assert.True(t, other)
}

// TestAcknowledgeWindowExpires
//
// Purpose: verify the dedupe window is bounded by the ledger TTL.
//
// Scope: RedisLedger.Acknowledge
//
// Expected: after the TTL elapses the same pair registers as first again.
func TestAcknowledgeWindowExpires(t *testing.T) {
	ledger, mr := newTestLedger(t, time.Minute)
	ctx := context.Background()

	first, err := ledger.Acknowledge(ctx, "n-1", "device-a")
	require.NoError(t, err)
	require.True(t, first)

	mr.FastForward(2 * time.Minute)

	again, err := ledger.Acknowledge(ctx, "n-1", "device-a")
	require.NoError(t, err)
	assert.True(t, again)
}
