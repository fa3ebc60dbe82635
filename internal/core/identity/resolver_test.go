package identity

import (
	"io"
	"log/slog"
	"testing"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func headers(uid string) *domain.RequestContext {
	return &domain.RequestContext{Headers: map[string]any{"uid": uid}}
}

func reauthorize(value string) []domain.Attribute {
	return []domain.Attribute{
		{Name: "caseNumber", Value: "42", Type: domain.AttributeText},
		{Name: "reauthorize", Value: value, Type: domain.AttributeText},
	}
}

func TestResolveKeepsHumanCallerWithoutScanning(t *testing.T) {
	got, source := newTestResolver().Resolve("GetDocument", headers("alice"), reauthorize("bob"))
	if got == nil || *got != "alice" {
		t.Fatalf("expected alice, got %v", got)
	}
	if source != SourceHeader {
		t.Fatalf("expected header source, got %s", source)
	}
}

func TestResolveKeepsNumericCallerUnchanged(t *testing.T) {
	rc, err := domain.ParseWorkflowVariables(`{"headers":{"uid":1234567}}`)
	if err != nil {
		t.Fatalf("ParseWorkflowVariables() error = %v", err)
	}
	got, source := newTestResolver().Resolve("GetDocument", &rc, reauthorize("bob"))
	if got == nil || *got != "1234567" {
		t.Fatalf("expected 1234567, got %v", got)
	}
	if source != SourceHeader {
		t.Fatalf("expected header source, got %s", source)
	}
}

func TestResolveReauthorizesTechnicalUser(t *testing.T) {
	got, source := newTestResolver().Resolve("CreateDocument", headers("pwfadmin"), reauthorize("bob"))
	if got == nil || *got != "bob" {
		t.Fatalf("expected bob, got %v", got)
	}
	if source != SourceReauthorize {
		t.Fatalf("expected reauthorize source, got %s", source)
	}
}

func TestResolveTechnicalUserIsCaseInsensitive(t *testing.T) {
	got, _ := newTestResolver().Resolve("CreateDocument", headers("PWFAdmin"), reauthorize("bob"))
	if got == nil || *got != "bob" {
		t.Fatalf("expected bob, got %v", got)
	}
}

func TestResolveWithoutHeadersUsesMetadata(t *testing.T) {
	for _, rc := range []*domain.RequestContext{nil, {Headers: map[string]any{}}} {
		got, source := newTestResolver().Resolve("DeleteDocument", rc, reauthorize("carol"))
		if got == nil || *got != "carol" {
			t.Fatalf("expected carol, got %v", got)
		}
		if source != SourceReauthorize {
			t.Fatalf("expected reauthorize source, got %s", source)
		}
	}
}

func TestResolveFallsBackToTechnicalUser(t *testing.T) {
	metadata := []domain.Attribute{{Name: "caseNumber", Value: "42", Type: domain.AttributeText}}
	got, source := newTestResolver().Resolve("UpdateDocument", headers("pwfadmin"), metadata)
	if got == nil || *got != "pwfadmin" {
		t.Fatalf("expected pwfadmin, got %v", got)
	}
	if source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", source)
	}
}

func TestResolveWithNothingYieldsNil(t *testing.T) {
	got, source := newTestResolver().Resolve("GetDocument", nil, nil)
	if got != nil {
		t.Fatalf("expected nil identity, got %q", *got)
	}
	if source != SourceNone {
		t.Fatalf("expected none source, got %s", source)
	}
}

func TestResolveFirstReauthorizeAttributeWins(t *testing.T) {
	metadata := []domain.Attribute{
		{Name: "REAUTHORIZE", Value: "first", Type: domain.AttributeText},
		{Name: "reauthorize", Value: "second", Type: domain.AttributeText},
	}
	got, _ := newTestResolver().Resolve("GetDocument", headers("pwfadmin"), metadata)
	if got == nil || *got != "first" {
		t.Fatalf("expected first, got %v", got)
	}
}

func TestResolveHonorsConfiguredNames(t *testing.T) {
	r := NewResolver(Config{
		CallerKey:            "kpjm",
		ReauthorizeAttribute: "onBehalfOf",
		TechnicalUserID:      "batch",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rc := &domain.RequestContext{Headers: map[string]any{"kpjm": "batch", "uid": "alice"}}
	metadata := []domain.Attribute{{Name: "onbehalfof", Value: "dave", Type: domain.AttributeText}}
	got, _ := r.Resolve("GetDocument", rc, metadata)
	if got == nil || *got != "dave" {
		t.Fatalf("expected dave, got %v", got)
	}
}
