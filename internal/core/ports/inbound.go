package ports

import (
	"context"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
)

// DocumentOperations is the required capability: every call carries the
// serialized workflow variables the engine handed to the job.
type DocumentOperations interface {
	Create(ctx context.Context, doc domain.NewDocument, workflowVariables string) (*domain.DocumentInfo, error)
	GetInfo(ctx context.Context, id domain.DocumentID, workflowVariables string) (*domain.DocumentInfo, error)
	GetData(ctx context.Context, id domain.DocumentID, workflowVariables string) (*domain.DocumentData, error)
	Update(ctx context.Context, id domain.DocumentID, update domain.DocumentUpdate, workflowVariables string) (*domain.DocumentInfo, error)
	Delete(ctx context.Context, id domain.DocumentID, workflowVariables string) (*domain.DocumentID, error)

	Capabilities() Capabilities
}

// ContextFreeOperations is optional. Connectors that need the workflow
// headers to attribute a call simply do not implement it.
type ContextFreeOperations interface {
	CreateWithoutContext(ctx context.Context, doc domain.NewDocument) (*domain.DocumentInfo, error)
	Get(ctx context.Context, id domain.DocumentID) (*domain.DocumentData, error)
	GetInfoWithoutContext(ctx context.Context, id domain.DocumentID) (*domain.DocumentInfo, error)
	GetDataWithoutContext(ctx context.Context, id domain.DocumentID) (*domain.DocumentData, error)
	UpdateWithoutContext(ctx context.Context, id domain.DocumentID, update domain.DocumentUpdate) (*domain.DocumentInfo, error)
	UpdateMetadata(ctx context.Context, id domain.DocumentID) (*domain.DocumentInfo, error)
	DeleteWithoutContext(ctx context.Context, id domain.DocumentID) (*domain.DocumentID, error)
	Storno(ctx context.Context, id domain.DocumentID, storno domain.DocumentStorno) (*domain.DocumentID, error)
}

// Capabilities is what a connector declares to its host.
type Capabilities struct {
	WorkflowVariablesAware bool   `json:"workflow_variables_aware"`
	MetadataUpdate         bool   `json:"metadata_update"`
	DefaultNamespace       string `json:"default_namespace"`
}

// ContextFree is the tagged capability check for the optional family.
func ContextFree(ops any) (ContextFreeOperations, bool) {
	cf, ok := ops.(ContextFreeOperations)
	return cf, ok
}
