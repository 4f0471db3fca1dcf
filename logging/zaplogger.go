// Package logging adapts the framing engine's dlis.ErrorHandler
// capability onto the teacher's logger.Logger facade, which is itself a
// thin wrapper over a zap sugared logger.
package logging

import (
	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/e-zl/dlisio/dlis"
)

// NewServiceLogger initializes the process-wide zap-backed logger (spec
// §6.2's sink) at the given level ("NOOP", "DEBUG", "INFO", ...) and
// returns a logger.Logger scoped to serviceName, grounded on the
// logger.Sugar.WithServiceName pattern used throughout the teacher's
// constructors (e.g. NewLogDirCache, NewMassifCommitter).
func NewServiceLogger(level, serviceName string) *logger.WrappedLogger {
	logger.New(level)
	return logger.Sugar.WithServiceName(serviceName)
}

// ErrorHandler adapts a logger.Logger to dlis.ErrorHandler, fanning out
// by severity the way the teacher's own call sites use Infof for
// tolerated anomalies: MINOR and MAJOR incidents are routed to Debugf
// and Infof respectively (they were already worked around), CRITICAL
// incidents to Errorf (indexing or extraction was aborted locally).
type ErrorHandler struct {
	log *logger.WrappedLogger
}

// NewErrorHandler wraps log as a dlis.ErrorHandler.
func NewErrorHandler(log *logger.WrappedLogger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) Log(severity dlis.Severity, context, problem, specRef, action string, debug dlis.DebugInfo) {
	msg := "%s: %s (%s) [ptell=%d ltell=%d]"
	args := []any{context, problem, action, debug.Ptell, debug.Ltell}
	if debug.Extra != "" {
		msg += " %s"
		args = append(args, debug.Extra)
	}

	switch severity {
	case dlis.MINOR:
		h.log.Debugf(msg, args...)
	case dlis.MAJOR:
		h.log.Infof(msg, args...)
	case dlis.CRITICAL:
		h.log.Errorf(msg, args...)
	default:
		h.log.Infof(msg, args...)
	}
}
