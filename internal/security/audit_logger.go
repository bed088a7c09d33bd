// Package security holds cross-cutting audit concerns for the tool server.
package security

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"
)

// AuditLogger records every tool dispatch with hashed argument payloads so
// the trail never contains raw CRM data.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogDispatch records one tool invocation outcome.
func (a *AuditLogger) LogDispatch(tool string, argsDigest string, ok bool, errKind string, duration time.Duration) {
	if !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "tool_audit").
		Str("tool", tool).
		Str("args_hash", argsDigest).
		Bool("ok", ok).
		Dur("duration", duration)

	if errKind != "" {
		evt = evt.Str("error_kind", errKind)
	}
	evt.Msg("audit")
}

// HashArgs produces a short stable digest of a serialized argument map.
func HashArgs(serialized []byte) string {
	if len(serialized) == 0 {
		return ""
	}
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])[:16]
}
