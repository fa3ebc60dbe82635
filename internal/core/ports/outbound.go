package ports

import (
	"context"
	"time"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
)

// CallMeta accompanies every ECM call. CorrelationID and Timestamp are fresh
// per call and never reused.
type CallMeta struct {
	Operation     string
	KPJM          *string
	CorrelationID string
	Timestamp     time.Time
}

// ECMDocumentAPI is the repository of record. A nil result with a nil error
// means the repository answered without a usable body.
type ECMDocumentAPI interface {
	CreateDocument(ctx context.Context, meta CallMeta, doc domain.NewDocument) (*domain.DocumentInfo, error)
	GetDocumentMetadata(ctx context.Context, meta CallMeta, id domain.DocumentID) (*domain.DocumentInfo, error)
	GetDocument(ctx context.Context, meta CallMeta, id domain.DocumentID) (*domain.DocumentData, error)
	UpdateDocument(ctx context.Context, meta CallMeta, id domain.DocumentID, update domain.DocumentUpdate) (*domain.DocumentInfo, error)
	DeleteDocument(ctx context.Context, meta CallMeta, id domain.DocumentID) (*domain.DocumentID, error)
}

// AuditRecord describes one facade call for the optional journal.
type AuditRecord struct {
	Operation      string
	KPJM           *string
	IdentitySource string
	CorrelationID  string
	DocumentID     string
	Outcome        string
	Elapsed        time.Duration
	CreatedAt      time.Time
}

// AuditJournal persists audit records. Implementations must be safe for
// concurrent use.
type AuditJournal interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// OperationObserver receives per-call measurements, usually for metrics.
type OperationObserver interface {
	ObserveIdentity(operation, source string)
	ObserveECMCall(operation, outcome string, elapsed time.Duration)
}
