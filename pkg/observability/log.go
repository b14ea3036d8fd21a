package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger. The CLI installs it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Install registers h for ordering, cache and HTTP events.
func (h *LogHooks) Install() {
	SetOrderHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnOrderStart(_ context.Context, kind string, n int) {
	h.Logger.Debug("order start", "kind", kind, "nodes", n)
}

func (h *LogHooks) OnOrderComplete(_ context.Context, kind string, kept, dropped int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("order failed", "kind", kind, "err", err)
		return
	}
	if dropped > 0 {
		h.Logger.Debug("order dropped unreachable nodes", "kind", kind, "kept", kept, "dropped", dropped, "took", d)
		return
	}
	h.Logger.Debug("order complete", "kind", kind, "kept", kept, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}
