// Package client provides the thin orchestration façade (C10) that
// sequences encrypt-name -> encrypt-data -> tokenize -> emit for the
// encrypt path, and its inverse for decrypt. It makes no cryptographic
// decisions of its own; every decision lives in keyhierarchy, payload,
// and search.
package client

import (
	"io"
	"log/slog"

	"github.com/neurallog/go-crypto-client/keyhierarchy"
)

// Session is the explicit, non-global handle threaded through
// orchestration calls, replacing the process-wide key-service singleton
// the source system used. One Session wraps one key Hierarchy and an
// optional diagnostics logger.
type Session struct {
	hierarchy *keyhierarchy.Hierarchy
	logger    *slog.Logger
}

// NewSession wraps hierarchy in a Session. A nil logger is replaced with
// a no-op logger, matching spec.md §2's "thin façade" contract: logging
// is diagnostic only, and a caller that doesn't want it pays nothing.
func NewSession(hierarchy *keyhierarchy.Hierarchy, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{hierarchy: hierarchy, logger: logger}
}

// Hierarchy returns the session's underlying key hierarchy, for callers
// that need to call keyhierarchy operations (SetCurrent, RecoverVersions)
// directly alongside the orchestration helpers.
func (s *Session) Hierarchy() *keyhierarchy.Hierarchy {
	return s.hierarchy
}

// Logout clears the session's key hierarchy, zeroizing all key material,
// and transitions the underlying hierarchy to Cleared (spec.md §4.6's
// state machine).
func (s *Session) Logout() {
	s.hierarchy.Clear()
}
