package ml

import (
	"fmt"
	"log/slog"

	"github.com/bibbank/loan-decision/internal/domain/port"
)

// Handle owns the classifier for the lifetime of the process. It is built
// once at startup and never reloaded; a failed load leaves the service in
// degraded mode.
type Handle struct {
	clf port.Classifier
	err error
}

// NewHandle wraps a loaded classifier, or the error that prevented loading
// it. The failure is logged here, once.
func NewHandle(clf port.Classifier, loadErr error, logger *slog.Logger) *Handle {
	if loadErr != nil {
		logger.Warn("model failed to load, serving in degraded mode", "error", loadErr)
		return &Handle{err: fmt.Errorf("%w: %v", port.ErrModelUnavailable, loadErr)}
	}
	if clf == nil {
		logger.Warn("no model configured, serving in degraded mode")
		return &Handle{err: port.ErrModelUnavailable}
	}
	logger.Info("model loaded", "model", clf.Name())
	return &Handle{clf: clf}
}

// Classifier implements port.ModelProvider.
func (h *Handle) Classifier() (port.Classifier, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.clf, nil
}

// Available reports whether a classifier is loaded.
func (h *Handle) Available() bool { return h.err == nil }
