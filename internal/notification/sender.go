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
	"log/slog"

	"github.com/clinicore/clinicore/internal/observability/logger"
)

// LogSender is a delivery transport that records the notification in the
// application log instead of pushing to a device gateway. It stands in
// for FCM/APNs transports in environments without push credentials and
// keeps the fan-out path exercised end to end.
type LogSender struct{}

// NewLogSender creates a log-backed delivery transport.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Name identifies the transport in fan-out logs.
func (*LogSender) Name() string { return "log" }

// Send records the notification. The body is not logged; titles are
// considered safe, bodies may carry clinical detail.
func (*LogSender) Send(ctx context.Context, n Notification) error {
	slog.InfoContext(ctx, "notification dispatched",
		logger.Component("notification"),
		logger.String("notification_id", n.ID),
		logger.BusinessID(n.BusinessID),
		logger.SubjectID(n.SubjectID),
		logger.String("title", n.Title),
	)
	return nil
}
