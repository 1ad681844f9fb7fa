// Package logging provides the package-level structured logger shared
// across the ledger engine and calibration packages. Attestor is a
// library with no network entrypoint, so unlike the teacher's services
// it does not call zap.NewProduction() itself — callers embedding
// Attestor wire their own *zap.Logger in via SetLogger, and everything
// defaults to a no-op logger until they do.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger = zap.NewNop()
)

// SetLogger replaces the package-level logger. Passing nil restores the
// no-op logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// L returns the current package-level logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
