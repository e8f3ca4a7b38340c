// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package lock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/codeinsight/issue-query-service/internal/domain/port"
)

// KeyedLocker is an in-process keyed try-lock. One service instance
// owns analysis submission for its projects, so process scope is
// sufficient; a clustered deployment would swap in a shared lock behind
// the same port.
type KeyedLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// TryLock acquires the named lock or reports failure immediately.
func (l *KeyedLocker) TryLock(ctx context.Context, key string) (release func(), acquired bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		slog.DebugContext(ctx, "lock already held", "key", key)
		return nil, false
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true
}

// NewKeyedLocker creates a new KeyedLocker instance
func NewKeyedLocker() port.AnalysisLocker {
	return &KeyedLocker{held: make(map[string]struct{})}
}
