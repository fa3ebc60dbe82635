// Package ecm connects the document facade to the FileNet REST API.
package ecm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/core/ports"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/ecm/ecmapi"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/ecm/mapper"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL      = "https://restapidv.pwfdata.corp"
	DefaultSourceSystem = "PWF"
	DefaultTimeout      = 30 * time.Second
)

var DefaultRedactFields = []string{"data", "content"}

type Config struct {
	BaseURL      string
	Username     string
	Password     string
	Namespace    string
	SourceSystem string
	Timeout      time.Duration
	Debug        bool
	RedactFields []string
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Namespace, validation.Required),
		validation.Field(&c.SourceSystem, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

var _ ports.ECMDocumentAPI = (*Gateway)(nil)

// Gateway implements ports.ECMDocumentAPI on top of the typed ECM client.
// Every call is made once; the executor only short-circuits while the
// operation's breaker is open.
type Gateway struct {
	client       ecmapi.ClientWithResponsesInterface
	mapper       *mapper.Mapper
	executor     *resilience.Executor
	sourceSystem string
}

func NewGateway(
	client ecmapi.ClientWithResponsesInterface,
	m *mapper.Mapper,
	sourceSystem string,
	executor *resilience.Executor,
) *Gateway {
	if sourceSystem == "" {
		sourceSystem = DefaultSourceSystem
	}
	return &Gateway{
		client:       client,
		mapper:       m,
		executor:     executor,
		sourceSystem: sourceSystem,
	}
}

// New builds the HTTP client stack (basic auth, logging transport, timeout)
// and the gateway on top of it.
func New(cfg Config, logger *slog.Logger, executor *resilience.Executor) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ecm config: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RedactFields == nil {
		cfg.RedactFields = DefaultRedactFields
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: NewLoggingTransport(http.DefaultTransport, logger, cfg.Debug, cfg.RedactFields),
	}
	client, err := ecmapi.NewClientWithResponses(cfg.BaseURL,
		ecmapi.WithHTTPClient(httpClient),
		ecmapi.WithBasicAuth(cfg.Username, cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create ecm client: %w", err)
	}
	return NewGateway(client, mapper.New(cfg.Namespace), cfg.SourceSystem, executor), nil
}

func (g *Gateway) CreateDocument(ctx context.Context, meta ports.CallMeta, doc domain.NewDocument) (*domain.DocumentInfo, error) {
	body, err := g.mapper.CreateRequest(doc)
	if err != nil {
		return nil, err
	}
	params := &ecmapi.ECMCreateDocumentParams{
		CallHeaders: g.headers(meta),
		Namespace:   g.namespace(""),
	}

	var resp *ecmapi.ECMCreateDocumentResponse
	err = g.execute(ctx, meta.Operation, func(ctx context.Context) error {
		r, err := g.client.ECMCreateDocumentWithResponse(ctx, params, body)
		if err != nil {
			return err
		}
		resp = r
		return checkStatus(meta.Operation, r.HTTPResponse, r.Body)
	})
	if err != nil {
		return nil, err
	}
	if resp.JSON200 == nil {
		return nil, nil
	}
	return g.mapper.InfoFromCreated(resp.JSON200, doc), nil
}

func (g *Gateway) GetDocumentMetadata(ctx context.Context, meta ports.CallMeta, id domain.DocumentID) (*domain.DocumentInfo, error) {
	params := &ecmapi.ECMGetDocumentMetadataParams{
		CallHeaders: g.headers(meta),
		Namespace:   g.namespace(id.Namespace),
		Version:     optional(id.Version),
	}

	var resp *ecmapi.ECMGetDocumentMetadataResponse
	err := g.execute(ctx, meta.Operation, func(ctx context.Context) error {
		r, err := g.client.ECMGetDocumentMetadataWithResponse(ctx, id.ID, params)
		if err != nil {
			return err
		}
		resp = r
		return checkStatus(meta.Operation, r.HTTPResponse, r.Body)
	})
	if err != nil {
		return nil, err
	}
	return g.mapper.InfoFromMetadata(resp.JSON200)
}

func (g *Gateway) GetDocument(ctx context.Context, meta ports.CallMeta, id domain.DocumentID) (*domain.DocumentData, error) {
	params := &ecmapi.ECMGetDocumentParams{
		CallHeaders: g.headers(meta),
		Namespace:   g.namespace(id.Namespace),
		Version:     optional(id.Version),
	}

	var resp *ecmapi.ECMGetDocumentResponse
	err := g.execute(ctx, meta.Operation, func(ctx context.Context) error {
		r, err := g.client.ECMGetDocumentWithResponse(ctx, id.ID, params)
		if err != nil {
			return err
		}
		resp = r
		return checkStatus(meta.Operation, r.HTTPResponse, r.Body)
	})
	if err != nil {
		return nil, err
	}
	return g.mapper.DataFromContent(resp.JSON200)
}

func (g *Gateway) UpdateDocument(ctx context.Context, meta ports.CallMeta, id domain.DocumentID, update domain.DocumentUpdate) (*domain.DocumentInfo, error) {
	body := g.mapper.UpdateRequest(update)
	params := &ecmapi.ECMUpdateDocumentParams{CallHeaders: g.headers(meta)}

	var resp *ecmapi.ECMUpdateDocumentResponse
	err := g.execute(ctx, meta.Operation, func(ctx context.Context) error {
		r, err := g.client.ECMUpdateDocumentWithResponse(ctx, id.ID, params, body)
		if err != nil {
			return err
		}
		resp = r
		return checkStatus(meta.Operation, r.HTTPResponse, r.Body)
	})
	if err != nil {
		return nil, err
	}
	if resp.JSON200 == nil {
		return nil, nil
	}
	return g.mapper.InfoFromUpdated(resp.JSON200, update), nil
}

func (g *Gateway) DeleteDocument(ctx context.Context, meta ports.CallMeta, id domain.DocumentID) (*domain.DocumentID, error) {
	params := &ecmapi.ECMDeleteDocumentParams{
		CallHeaders: g.headers(meta),
		Namespace:   g.namespace(id.Namespace),
		Version:     optional(id.Version),
	}

	var resp *ecmapi.ECMDeleteDocumentResponse
	err := g.execute(ctx, meta.Operation, func(ctx context.Context) error {
		r, err := g.client.ECMDeleteDocumentWithResponse(ctx, id.ID, params)
		if err != nil {
			return err
		}
		resp = r
		return checkStatus(meta.Operation, r.HTTPResponse, r.Body)
	})
	if err != nil {
		return nil, err
	}
	return g.mapper.DocumentID(resp.JSON200), nil
}

func (g *Gateway) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	var err error
	if g.executor == nil {
		err = fn(ctx)
	} else {
		err = g.executor.Execute(ctx, operation, fn, recordsFailure)
	}
	return classifyCallError(operation, err)
}

func (g *Gateway) headers(meta ports.CallMeta) ecmapi.CallHeaders {
	return ecmapi.CallHeaders{
		Kpjm:          meta.KPJM,
		CorrelationId: meta.CorrelationID,
		Timestamp:     strconv.FormatInt(meta.Timestamp.UnixMilli(), 10),
		SourceSystem:  g.sourceSystem,
	}
}

// namespace prefers the namespace the document identity carries.
func (g *Gateway) namespace(requested string) *string {
	if requested != "" {
		return &requested
	}
	ns := g.mapper.Namespace()
	return &ns
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
