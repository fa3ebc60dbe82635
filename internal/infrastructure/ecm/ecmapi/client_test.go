package ecmapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func strPtr(v string) *string { return &v }

func TestGetSwaggerIsValid(t *testing.T) {
	swagger, err := GetSwagger()
	if err != nil {
		t.Fatalf("GetSwagger() error = %v", err)
	}
	if err := swagger.Validate(context.Background()); err != nil {
		t.Fatalf("swagger.Validate() error = %v", err)
	}
	for _, path := range []string{"/documents", "/documents/{id}", "/documents/{id}/metadata"} {
		if swagger.Paths.Find(path) == nil {
			t.Fatalf("expected path %s in OpenAPI document", path)
		}
	}
}

func TestGetDocumentMetadataRequestCarriesParameters(t *testing.T) {
	req, err := NewECMGetDocumentMetadataRequest("https://ecm.example/api/", "doc 1", &ECMGetDocumentMetadataParams{
		CallHeaders: CallHeaders{
			Kpjm:          strPtr("alice"),
			CorrelationId: "corr-1",
			Timestamp:     "1700000000000",
			SourceSystem:  "PWF",
		},
		Namespace: strPtr("pwf"),
		Version:   strPtr("2"),
	})
	if err != nil {
		t.Fatalf("NewECMGetDocumentMetadataRequest() error = %v", err)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	if req.URL.EscapedPath() != "/api/documents/doc%201/metadata" {
		t.Fatalf("unexpected path %s", req.URL.EscapedPath())
	}
	if req.URL.Query().Get("namespace") != "pwf" || req.URL.Query().Get("version") != "2" {
		t.Fatalf("unexpected query %s", req.URL.RawQuery)
	}
	if req.Header.Get("kpjm") != "alice" {
		t.Fatalf("expected kpjm header alice, got %q", req.Header.Get("kpjm"))
	}
	if req.Header.Get("X-Correlation-Id") != "corr-1" || req.Header.Get("X-Source-System") != "PWF" {
		t.Fatalf("unexpected tracing headers %v", req.Header)
	}
}

func TestRequestOmitsKpjmWhenUnresolved(t *testing.T) {
	req, err := NewECMDeleteDocumentRequest("https://ecm.example", "doc-1", &ECMDeleteDocumentParams{
		CallHeaders: CallHeaders{CorrelationId: "c", Timestamp: "1", SourceSystem: "PWF"},
	})
	if err != nil {
		t.Fatalf("NewECMDeleteDocumentRequest() error = %v", err)
	}
	if _, ok := req.Header["Kpjm"]; ok {
		t.Fatalf("expected no kpjm header, got %v", req.Header)
	}
	if req.URL.RawQuery != "" {
		t.Fatalf("expected empty query, got %s", req.URL.RawQuery)
	}
}

func TestCreateWithResponseDecodesIdentificator(t *testing.T) {
	var captured CreateDocumentBodyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/documents" {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "svc" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"F-1","version":"1"}`))
	}))
	defer server.Close()

	client, err := NewClientWithResponses(server.URL, WithBasicAuth("svc", "secret"))
	if err != nil {
		t.Fatalf("NewClientWithResponses() error = %v", err)
	}
	resp, err := client.ECMCreateDocumentWithResponse(context.Background(), &ECMCreateDocumentParams{
		CallHeaders: CallHeaders{CorrelationId: "c", Timestamp: "1", SourceSystem: "PWF"},
	}, CreateDocumentBodyRequest{Filename: "a.pdf", Title: "a", Attributes: []FileNetAttribute{}})
	if err != nil {
		t.Fatalf("ECMCreateDocumentWithResponse() error = %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode())
	}
	if resp.JSON200 == nil || resp.JSON200.Id == nil || *resp.JSON200.Id != "F-1" {
		t.Fatalf("unexpected identificator %#v", resp.JSON200)
	}
	if captured.Filename != "a.pdf" || captured.Title != "a" {
		t.Fatalf("unexpected captured body %#v", captured)
	}
}

func TestSuccessBodyDecodedForAny2xx(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		decoded bool
	}{
		{name: "ok", status: http.StatusOK, decoded: true},
		{name: "created", status: http.StatusCreated, decoded: true},
		{name: "accepted", status: http.StatusAccepted, decoded: true},
		{name: "not found", status: http.StatusNotFound, decoded: false},
		{name: "server error", status: http.StatusInternalServerError, decoded: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"id":"F-7","version":"2"}`))
			}))
			defer server.Close()

			client, err := NewClientWithResponses(server.URL)
			if err != nil {
				t.Fatalf("NewClientWithResponses() error = %v", err)
			}
			resp, err := client.ECMCreateDocumentWithResponse(context.Background(), &ECMCreateDocumentParams{}, CreateDocumentBodyRequest{Filename: "a.pdf", Title: "a"})
			if err != nil {
				t.Fatalf("ECMCreateDocumentWithResponse() error = %v", err)
			}
			if got := resp.JSON200 != nil; got != tc.decoded {
				t.Fatalf("status %d: decoded = %v, want %v", tc.status, got, tc.decoded)
			}
			if tc.decoded && (resp.JSON200.Id == nil || *resp.JSON200.Id != "F-7") {
				t.Fatalf("unexpected identificator %#v", resp.JSON200)
			}
		})
	}
}

func TestEmptyBodyYieldsNoPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClientWithResponses(server.URL)
	if err != nil {
		t.Fatalf("NewClientWithResponses() error = %v", err)
	}
	resp, err := client.ECMGetDocumentWithResponse(context.Background(), "doc-1", &ECMGetDocumentParams{})
	if err != nil {
		t.Fatalf("ECMGetDocumentWithResponse() error = %v", err)
	}
	if resp.JSON200 != nil {
		t.Fatalf("expected no payload, got %#v", resp.JSON200)
	}
}
