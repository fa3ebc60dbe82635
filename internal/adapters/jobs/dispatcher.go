// Package jobs serves document operations to workflow job workers over a
// request/reply transport. Each request carries a JSON envelope and gets a
// JSON reply.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/core/ports"
)

const (
	OpCreate  = "create"
	OpGetInfo = "getInfo"
	OpGetData = "getData"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpStorno  = "storno"
)

// Operations lists every subject suffix the dispatcher answers.
var Operations = []string{OpCreate, OpGetInfo, OpGetData, OpUpdate, OpDelete, OpStorno}

// Request is the job envelope. Which fields are read depends on the
// operation: create reads New, update reads Document and Update, storno reads
// Document and Storno, the rest read Document.
type Request struct {
	Document  *domain.DocumentID     `json:"document,omitempty"`
	New       *domain.NewDocument    `json:"new,omitempty"`
	Update    *domain.DocumentUpdate `json:"update,omitempty"`
	Storno    *domain.DocumentStorno `json:"storno,omitempty"`
	Variables string                 `json:"variables"`
}

// Reply carries either a result (absent when the document does not exist)
// or an error with its kind.
type Reply struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Kind   string          `json:"kind,omitempty"`
}

type JobMetrics interface {
	StartJob()
	FinishJob(service, operation string, duration time.Duration, err error)
}

type Dispatcher struct {
	docs    ports.DocumentOperations
	metrics JobMetrics
	logger  *slog.Logger
	service string
}

func NewDispatcher(docs ports.DocumentOperations, jobMetrics JobMetrics, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		docs:    docs,
		metrics: jobMetrics,
		logger:  logger,
		service: "worker",
	}
}

// Handle decodes one envelope, runs the operation and encodes the reply. It
// never fails: transport-level problems are reported inside the reply.
func (d *Dispatcher) Handle(ctx context.Context, operation string, payload []byte) []byte {
	start := time.Now()
	if d.metrics != nil {
		d.metrics.StartJob()
	}

	result, err := d.dispatch(ctx, operation, payload)
	if d.metrics != nil {
		d.metrics.FinishJob(d.service, operation, time.Since(start), err)
	}

	reply := Reply{OK: err == nil}
	if err != nil {
		reply.Error = err.Error()
		reply.Kind = errorKind(err)
		d.logger.Warn("job_failed", "operation", operation, "kind", reply.Kind, "error", err)
	} else if result != nil {
		encoded, encErr := json.Marshal(result)
		if encErr != nil {
			reply = Reply{Error: encErr.Error(), Kind: "internal"}
		} else {
			reply.Result = encoded
		}
	}

	out, err := json.Marshal(reply)
	if err != nil {
		d.logger.Error("job_reply_encode_failed", "operation", operation, "error", err)
		return []byte(`{"ok":false,"kind":"internal","error":"encode reply"}`)
	}
	return out
}

func (d *Dispatcher) dispatch(ctx context.Context, operation string, payload []byte) (any, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode job", err)
	}

	switch operation {
	case OpCreate:
		if req.New == nil {
			return nil, missingField(operation, "new")
		}
		info, err := d.docs.Create(ctx, *req.New, req.Variables)
		return orAbsent(info, info == nil, err)
	case OpGetInfo:
		if req.Document == nil {
			return nil, missingField(operation, "document")
		}
		info, err := d.docs.GetInfo(ctx, *req.Document, req.Variables)
		return orAbsent(info, info == nil, err)
	case OpGetData:
		if req.Document == nil {
			return nil, missingField(operation, "document")
		}
		data, err := d.docs.GetData(ctx, *req.Document, req.Variables)
		return orAbsent(data, data == nil, err)
	case OpUpdate:
		if req.Document == nil || req.Update == nil {
			return nil, missingField(operation, "document and update")
		}
		info, err := d.docs.Update(ctx, *req.Document, *req.Update, req.Variables)
		return orAbsent(info, info == nil, err)
	case OpDelete:
		if req.Document == nil {
			return nil, missingField(operation, "document")
		}
		id, err := d.docs.Delete(ctx, *req.Document, req.Variables)
		return orAbsent(id, id == nil, err)
	case OpStorno:
		cf, ok := ports.ContextFree(d.docs)
		if !ok {
			return nil, domain.Unsupported(OpStorno)
		}
		if req.Document == nil {
			return nil, missingField(operation, "document")
		}
		var storno domain.DocumentStorno
		if req.Storno != nil {
			storno = *req.Storno
		}
		id, err := cf.Storno(ctx, *req.Document, storno)
		return orAbsent(id, id == nil, err)
	default:
		return nil, domain.Unsupported(operation)
	}
}

// orAbsent keeps typed nil pointers out of the reply so an absent document
// encodes as a missing result.
func orAbsent(v any, absent bool, err error) (any, error) {
	if err != nil || absent {
		return nil, err
	}
	return v, nil
}

func missingField(operation, field string) error {
	return domain.WrapError(domain.ErrInvalidInput, operation, errors.New(field+" is required"))
}

func errorKind(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid_input"
	case domain.IsKind(err, domain.ErrUnauthorized):
		return "unauthorized"
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return "not_found"
	case domain.IsKind(err, domain.ErrUnsupportedOperation):
		return "unsupported"
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "internal"
	}
}
