package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/filenet-dms-connector/internal/config"
	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/core/ports"
	"github.com/kirillkom/filenet-dms-connector/internal/observability/metrics"
)

const (
	workflowVariablesHeader  = "X-Workflow-Variables"
	documentAttributesHeader = "X-Document-Attributes"

	maxDocumentBodyBytes = 64 << 20
)

type Router struct {
	cfg     config.Config
	docs    ports.DocumentOperations
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger
}

func NewRouter(
	cfg config.Config,
	docs ports.DocumentOperations,
	httpMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:     cfg,
		docs:    docs,
		metrics: httpMetrics,
		logger:  logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /v1/capabilities", rt.capabilities)
	mux.HandleFunc("POST /v1/documents", rt.createDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentInfo)
	mux.HandleFunc("GET /v1/documents/{id}/content", rt.getDocumentData)
	mux.HandleFunc("PUT /v1/documents/{id}", rt.updateDocument)
	mux.HandleFunc("DELETE /v1/documents/{id}", rt.deleteDocument)
	mux.HandleFunc("POST /v1/documents/{id}/storno", rt.stornoDocument)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIBackpressureMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) capabilities(w http.ResponseWriter, _ *http.Request) {
	_, contextFree := ports.ContextFree(rt.docs)
	writeJSON(w, http.StatusOK, map[string]any{
		"capabilities": rt.docs.Capabilities(),
		"context_free": contextFree,
	})
}

func (rt *Router) createDocument(w http.ResponseWriter, r *http.Request) {
	var doc domain.NewDocument
	if err := decodeBody(w, r, &doc); err != nil {
		rt.writeError(w, r, err)
		return
	}

	info, err := rt.docs.Create(r.Context(), doc, r.Header.Get(workflowVariablesHeader))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (rt *Router) getDocumentInfo(w http.ResponseWriter, r *http.Request) {
	id, err := documentIDFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	info, err := rt.docs.GetInfo(r.Context(), id, r.Header.Get(workflowVariablesHeader))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if info == nil {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (rt *Router) getDocumentData(w http.ResponseWriter, r *http.Request) {
	id, err := documentIDFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	data, err := rt.docs.GetData(r.Context(), id, r.Header.Get(workflowVariablesHeader))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if data == nil {
		writeNotFound(w, id)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "application/octet-stream") {
		writeContent(w, data)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (rt *Router) updateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := documentIDFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	var update domain.DocumentUpdate
	if err := decodeBody(w, r, &update); err != nil {
		rt.writeError(w, r, err)
		return
	}

	info, err := rt.docs.Update(r.Context(), id, update, r.Header.Get(workflowVariablesHeader))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := documentIDFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	deleted, err := rt.docs.Delete(r.Context(), id, r.Header.Get(workflowVariablesHeader))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if deleted == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

// stornoDocument is only served by connectors offering the context-free
// operation family.
func (rt *Router) stornoDocument(w http.ResponseWriter, r *http.Request) {
	cf, ok := ports.ContextFree(rt.docs)
	if !ok {
		rt.writeError(w, r, domain.Unsupported("storno"))
		return
	}
	id, err := documentIDFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	var storno domain.DocumentStorno
	if err := decodeBody(w, r, &storno); err != nil {
		rt.writeError(w, r, err)
		return
	}

	cancelled, err := cf.Storno(r.Context(), id, storno)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}

// documentIDFromRequest reads the identity from the path, the namespace and
// version query parameters and the optional attribute header.
func documentIDFromRequest(r *http.Request) (domain.DocumentID, error) {
	id := domain.DocumentID{
		ID:        strings.TrimSpace(r.PathValue("id")),
		Namespace: r.URL.Query().Get("namespace"),
		Version:   r.URL.Query().Get("version"),
	}
	if id.ID == "" {
		return id, domain.WrapError(domain.ErrInvalidInput, "read document id", errors.New("document id is required"))
	}
	if raw := strings.TrimSpace(r.Header.Get(documentAttributesHeader)); raw != "" {
		if err := json.Unmarshal([]byte(raw), &id.Attributes); err != nil {
			return id, domain.WrapError(domain.ErrInvalidInput, "read document attributes", err)
		}
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, maxDocumentBodyBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.WrapError(domain.ErrInvalidInput, "decode request", errors.New("request body is required"))
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	return nil
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		rt.logger.Error("document_request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeNotFound(w http.ResponseWriter, id domain.DocumentID) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": fmt.Sprintf("document %s not found", id.ID),
	})
}

func writeContent(w http.ResponseWriter, data *domain.DocumentData) {
	contentType := "application/octet-stream"
	if data.Info != nil && data.Info.MimeType != "" {
		contentType = data.Info.MimeType
	}
	w.Header().Set("Content-Type", contentType)
	if data.Info != nil && data.Info.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", data.Info.Filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data.Content)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
