package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/core/identity"
	"github.com/kirillkom/filenet-dms-connector/internal/core/ports"
)

const (
	OperationCreate      = "CreateDocument"
	OperationGetMetadata = "GetDocumentMetadata"
	OperationGetDocument = "GetDocument"
	OperationUpdate      = "UpdateDocument"
	OperationDelete      = "DeleteDocument"
)

const (
	OutcomeSuccess = "success"
	OutcomeAbsent  = "absent"
)

var _ ports.DocumentOperations = (*DocumentService)(nil)

type DocumentService struct {
	ecm      ports.ECMDocumentAPI
	resolver *identity.Resolver
	journal  ports.AuditJournal
	observer ports.OperationObserver
	logger   *slog.Logger
	caps     ports.Capabilities

	now           func() time.Time
	correlationID func() string
}

type DocumentServiceOption func(*DocumentService)

func WithAuditJournal(journal ports.AuditJournal) DocumentServiceOption {
	return func(s *DocumentService) {
		s.journal = journal
	}
}

func WithObserver(observer ports.OperationObserver) DocumentServiceOption {
	return func(s *DocumentService) {
		s.observer = observer
	}
}

func WithLogger(logger *slog.Logger) DocumentServiceOption {
	return func(s *DocumentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetadataUpdate declares whether the host may send metadata-only updates.
func WithMetadataUpdate(enabled bool) DocumentServiceOption {
	return func(s *DocumentService) {
		s.caps.MetadataUpdate = enabled
	}
}

func WithClock(now func() time.Time) DocumentServiceOption {
	return func(s *DocumentService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithCorrelationIDs(next func() string) DocumentServiceOption {
	return func(s *DocumentService) {
		if next != nil {
			s.correlationID = next
		}
	}
}

func NewDocumentService(
	ecm ports.ECMDocumentAPI,
	resolver *identity.Resolver,
	namespace string,
	opts ...DocumentServiceOption,
) *DocumentService {
	s := &DocumentService{
		ecm:      ecm,
		resolver: resolver,
		logger:   slog.Default(),
		caps: ports.Capabilities{
			WorkflowVariablesAware: true,
			DefaultNamespace:       namespace,
		},
		now:           time.Now,
		correlationID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = identity.NewResolver(identity.DefaultConfig(), s.logger)
	}
	return s
}

func (s *DocumentService) Capabilities() ports.Capabilities {
	return s.caps
}

func (s *DocumentService) Create(ctx context.Context, doc domain.NewDocument, workflowVariables string) (*domain.DocumentInfo, error) {
	call, err := s.begin(OperationCreate, workflowVariables, doc.Metadata)
	if err != nil {
		return nil, err
	}
	info, err := s.ecm.CreateDocument(ctx, call.meta, doc)
	call.documentID = infoDocumentID(info)
	s.finish(ctx, call, info == nil, err)
	return info, err
}

func (s *DocumentService) GetInfo(ctx context.Context, id domain.DocumentID, workflowVariables string) (*domain.DocumentInfo, error) {
	call, err := s.begin(OperationGetMetadata, workflowVariables, id.Attributes)
	if err != nil {
		return nil, err
	}
	call.documentID = id.ID
	info, err := s.ecm.GetDocumentMetadata(ctx, call.meta, id)
	s.finish(ctx, call, info == nil, err)
	return info, err
}

func (s *DocumentService) GetData(ctx context.Context, id domain.DocumentID, workflowVariables string) (*domain.DocumentData, error) {
	call, err := s.begin(OperationGetDocument, workflowVariables, id.Attributes)
	if err != nil {
		return nil, err
	}
	call.documentID = id.ID
	data, err := s.ecm.GetDocument(ctx, call.meta, id)
	s.finish(ctx, call, data == nil, err)
	return data, err
}

func (s *DocumentService) Update(ctx context.Context, id domain.DocumentID, update domain.DocumentUpdate, workflowVariables string) (*domain.DocumentInfo, error) {
	call, err := s.begin(OperationUpdate, workflowVariables, id.Attributes)
	if err != nil {
		return nil, err
	}
	call.documentID = id.ID
	info, err := s.ecm.UpdateDocument(ctx, call.meta, id, update)
	s.finish(ctx, call, info == nil, err)
	return info, err
}

func (s *DocumentService) Delete(ctx context.Context, id domain.DocumentID, workflowVariables string) (*domain.DocumentID, error) {
	call, err := s.begin(OperationDelete, workflowVariables, id.Attributes)
	if err != nil {
		return nil, err
	}
	call.documentID = id.ID
	deleted, err := s.ecm.DeleteDocument(ctx, call.meta, id)
	s.finish(ctx, call, deleted == nil, err)
	return deleted, err
}

type callState struct {
	meta       ports.CallMeta
	source     identity.Source
	documentID string
	started    time.Time
}

func (s *DocumentService) begin(operation, workflowVariables string, metadata []domain.Attribute) (*callState, error) {
	rc, err := domain.ParseWorkflowVariables(workflowVariables)
	if err != nil {
		return nil, err
	}
	kpjm, source := s.resolver.Resolve(operation, &rc, metadata)
	if s.observer != nil {
		s.observer.ObserveIdentity(operation, string(source))
	}

	now := s.now()
	return &callState{
		meta: ports.CallMeta{
			Operation:     operation,
			KPJM:          kpjm,
			CorrelationID: s.correlationID(),
			Timestamp:     now,
		},
		source:  source,
		started: now,
	}, nil
}

func (s *DocumentService) finish(ctx context.Context, call *callState, absent bool, err error) {
	elapsed := s.now().Sub(call.started)
	outcome := outcomeOf(absent, err)

	s.logger.Debug("ecm_call",
		"endpoint", call.meta.Operation,
		"correlation_id", call.meta.CorrelationID,
		"outcome", outcome,
		"elapsed_ms", float64(elapsed.Microseconds())/1000.0,
	)
	if s.observer != nil {
		s.observer.ObserveECMCall(call.meta.Operation, outcome, elapsed)
	}
	if s.journal == nil {
		return
	}

	rec := ports.AuditRecord{
		Operation:      call.meta.Operation,
		KPJM:           call.meta.KPJM,
		IdentitySource: string(call.source),
		CorrelationID:  call.meta.CorrelationID,
		DocumentID:     call.documentID,
		Outcome:        outcome,
		Elapsed:        elapsed,
		CreatedAt:      call.started.UTC(),
	}
	if jerr := s.journal.Record(ctx, rec); jerr != nil {
		s.logger.Warn("audit_record_failed",
			"operation", call.meta.Operation,
			"correlation_id", call.meta.CorrelationID,
			"error", jerr,
		)
	}
}

// outcomeOf labels a call for metrics and the audit journal.
func outcomeOf(absent bool, err error) string {
	switch {
	case err == nil && absent:
		return OutcomeAbsent
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "error"
	}
}

func infoDocumentID(info *domain.DocumentInfo) string {
	if info == nil || info.ID == nil {
		return ""
	}
	return info.ID.ID
}
