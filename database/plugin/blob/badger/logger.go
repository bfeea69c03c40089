// Copyright 2026 Blink Labs Software
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

package badger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// BadgerLogger adapts a slog.Logger to badger's logging interface. Badger
// terminates its messages with a newline, which slog does not want.
type BadgerLogger struct {
	logger *slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) *BadgerLogger {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &BadgerLogger{logger: logger}
}

func (l *BadgerLogger) log(level slog.Level, msg string, args []any) {
	l.logger.Log(
		context.Background(),
		level,
		strings.TrimSuffix(fmt.Sprintf(msg, args...), "\n"),
		"component", "database",
	)
}

func (l *BadgerLogger) Infof(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args)
}

func (l *BadgerLogger) Warningf(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args)
}

func (l *BadgerLogger) Debugf(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args)
}

func (l *BadgerLogger) Errorf(msg string, args ...any) {
	l.log(slog.LevelError, msg, args)
}
