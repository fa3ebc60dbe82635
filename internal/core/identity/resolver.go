// Package identity decides which user (KPJM) an ECM call is attributed to.
//
// The workflow engine runs some jobs under a technical identity. Such jobs
// may name the human they act for in a document attribute; that attribute
// only counts when the caller is the technical user or unknown.
package identity

import (
	"log/slog"
	"strings"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
)

const (
	DefaultCallerKey            = "uid"
	DefaultReauthorizeAttribute = "reauthorize"
	DefaultTechnicalUserID      = "pwfadmin"
)

// Source tells where the effective identity came from.
type Source string

const (
	SourceHeader      Source = "header"
	SourceReauthorize Source = "reauthorize"
	SourceFallback    Source = "fallback"
	SourceNone        Source = "none"
)

type Config struct {
	CallerKey            string
	ReauthorizeAttribute string
	TechnicalUserID      string
}

func DefaultConfig() Config {
	return Config{
		CallerKey:            DefaultCallerKey,
		ReauthorizeAttribute: DefaultReauthorizeAttribute,
		TechnicalUserID:      DefaultTechnicalUserID,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()
	if strings.TrimSpace(out.CallerKey) == "" {
		out.CallerKey = def.CallerKey
	}
	if strings.TrimSpace(out.ReauthorizeAttribute) == "" {
		out.ReauthorizeAttribute = def.ReauthorizeAttribute
	}
	if strings.TrimSpace(out.TechnicalUserID) == "" {
		out.TechnicalUserID = def.TechnicalUserID
	}
	return out
}

type Resolver struct {
	cfg    Config
	logger *slog.Logger
}

func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg.normalize(), logger: logger}
}

// Resolve returns the effective identity, or nil when none can be found.
// A nil result is not an error; the ECM decides whether to accept the call.
func (r *Resolver) Resolve(operation string, rc *domain.RequestContext, metadata []domain.Attribute) (*string, Source) {
	candidate, ok := rc.Header(r.cfg.CallerKey)
	if ok && !strings.EqualFold(candidate, r.cfg.TechnicalUserID) {
		return &candidate, SourceHeader
	}

	r.logger.Debug("kpjm_reauthorize_lookup",
		"operation", operation,
		"technical_user", r.cfg.TechnicalUserID,
		"caller_present", ok,
		"metadata", describe(metadata),
	)

	for _, attr := range metadata {
		if strings.EqualFold(attr.Name, r.cfg.ReauthorizeAttribute) {
			value := attr.Value
			r.logger.Debug("kpjm_reauthorized", "operation", operation, "kpjm", value)
			return &value, SourceReauthorize
		}
	}

	if !ok {
		r.logger.Debug("kpjm_unresolved", "operation", operation, "attribute", r.cfg.ReauthorizeAttribute)
		return nil, SourceNone
	}
	r.logger.Debug("kpjm_fallback", "operation", operation, "attribute", r.cfg.ReauthorizeAttribute, "kpjm", candidate)
	return &candidate, SourceFallback
}

func describe(metadata []domain.Attribute) []string {
	out := make([]string, 0, len(metadata))
	for _, m := range metadata {
		out = append(out, m.Name+" -> "+m.Value)
	}
	return out
}
