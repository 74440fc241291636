package logging

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Module names the component that emitted a record.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type HandlerConfig struct {
	Service       ServiceInfo
	Environment   Environment
	Level         slog.Leveler
	DefaultModule Module
	// GCPProjectID enables Cloud Logging trace correlation fields.
	GCPProjectID string
}

// Handler decorates records with service, trace and request attributes.
type Handler struct {
	inner     slog.Handler
	cfg       HandlerConfig
	hasModule bool
}

func NewHandler(w io.Writer, cfg HandlerConfig) *Handler {
	inner := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: replaceAttr,
	})

	attrs := []slog.Attr{
		slog.Group("service",
			slog.String("name", cfg.Service.Name),
			slog.String("version", cfg.Service.Version),
		),
		slog.String("env", string(cfg.Environment)),
	}
	if cfg.Service.Revision != "" {
		attrs = append(attrs, slog.String("revision", cfg.Service.Revision))
	}

	return &Handler{
		inner: inner.WithAttrs(attrs),
		cfg:   cfg,
	}
}

// replaceAttr renames the standard keys to what Cloud Logging expects.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
		r.AddAttrs(gcpTraceAttrs(ctx, h.cfg.GCPProjectID)...)
	}

	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}

	if !h.hasModule {
		module := ModuleFromContext(ctx)
		if module == "" {
			module = h.cfg.DefaultModule
		}
		if module != "" {
			r.AddAttrs(slog.String("module", string(module)))
		}
	}

	return h.inner.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hasModule := h.hasModule
	for _, a := range attrs {
		if a.Key == "module" {
			hasModule = true
		}
	}
	return &Handler{inner: h.inner.WithAttrs(attrs), cfg: h.cfg, hasModule: hasModule}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), cfg: h.cfg, hasModule: h.hasModule}
}
