// Package obalog wraps zerolog for the VM's internal diagnostic and
// lifecycle logging (construction, teardown, resource-limit warnings).
// It is never used for the `debug` sink — that's a fixed-format
// contract written directly to the embedder's chosen writer — so a
// structured logger here never corrupts Oba's stdout contract.
package obalog

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is a session-scoped diagnostic logger, tagged with the owning
// VM's session ID so multiple embedded VMs in one process produce
// distinguishable log lines.
type Logger struct {
	zerolog.Logger
	SessionID uuid.UUID
}

// New creates a Logger writing to w (os.Stderr if w is nil).
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	id := uuid.New()
	base := zerolog.New(w).With().Timestamp().Str("session", id.String()).Logger()
	return Logger{Logger: base, SessionID: id}
}

// Discard returns a Logger that drops everything, for embedders that
// don't want VM diagnostics on stderr.
func Discard() Logger {
	return Logger{Logger: zerolog.Nop(), SessionID: uuid.New()}
}
