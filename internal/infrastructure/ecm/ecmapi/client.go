package ecmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// RequestEditorFn is the function signature for the RequestEditor callback function
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// HttpRequestDoer performs HTTP requests.
//
// The standard http.Client implements this interface.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client which conforms to the OpenAPI3 specification for this service.
type Client struct {
	// The endpoint of the server conforming to this interface, with scheme,
	// https://api.deepmap.com for example. This can contain a path relative
	// to the server, such as https://api.deepmap.com/dev-test, and all the
	// paths in the swagger spec will be appended to the server.
	Server string

	// Doer for performing requests, typically a *http.Client with any
	// customized settings, such as certificate chains.
	Client HttpRequestDoer

	// A list of callbacks for modifying requests which are generated before sending over
	// the network.
	RequestEditors []RequestEditorFn
}

// ClientOption allows setting custom parameters during construction
type ClientOption func(*Client) error

// NewClient creates a new Client, with reasonable defaults
func NewClient(server string, opts ...ClientOption) (*Client, error) {
	client := Client{
		Server: server,
	}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	// ensure the server URL always has a trailing slash
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient allows overriding the default Doer, which is
// automatically created using http.Client. This is useful for tests.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *Client) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn allows setting up a callback function, which will be
// called right before sending the request. This can be used to mutate the request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// WithBasicAuth adds HTTP basic credentials to every request.
func WithBasicAuth(username, password string) ClientOption {
	return WithRequestEditorFn(func(_ context.Context, req *http.Request) error {
		if username != "" || password != "" {
			req.SetBasicAuth(username, password)
		}
		return nil
	})
}

// The interface specification for the client above.
type ClientInterface interface {
	ECMCreateDocument(ctx context.Context, params *ECMCreateDocumentParams, body ECMCreateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	ECMGetDocument(ctx context.Context, id string, params *ECMGetDocumentParams, reqEditors ...RequestEditorFn) (*http.Response, error)
	ECMGetDocumentMetadata(ctx context.Context, id string, params *ECMGetDocumentMetadataParams, reqEditors ...RequestEditorFn) (*http.Response, error)
	ECMUpdateDocument(ctx context.Context, id string, params *ECMUpdateDocumentParams, body ECMUpdateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	ECMDeleteDocument(ctx context.Context, id string, params *ECMDeleteDocumentParams, reqEditors ...RequestEditorFn) (*http.Response, error)
}

func (c *Client) ECMCreateDocument(ctx context.Context, params *ECMCreateDocumentParams, body ECMCreateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewECMCreateDocumentRequest(c.Server, params, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) ECMGetDocument(ctx context.Context, id string, params *ECMGetDocumentParams, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewECMGetDocumentRequest(c.Server, id, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) ECMGetDocumentMetadata(ctx context.Context, id string, params *ECMGetDocumentMetadataParams, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewECMGetDocumentMetadataRequest(c.Server, id, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) ECMUpdateDocument(ctx context.Context, id string, params *ECMUpdateDocumentParams, body ECMUpdateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewECMUpdateDocumentRequest(c.Server, id, params, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) ECMDeleteDocument(ctx context.Context, id string, params *ECMDeleteDocumentParams, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewECMDeleteDocumentRequest(c.Server, id, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) do(ctx context.Context, req *http.Request, reqEditors []RequestEditorFn) (*http.Response, error) {
	req = req.WithContext(ctx)
	if err := c.applyEditors(ctx, req, reqEditors); err != nil {
		return nil, err
	}
	return c.Client.Do(req)
}

func (c *Client) applyEditors(ctx context.Context, req *http.Request, additionalEditors []RequestEditorFn) error {
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	for _, r := range additionalEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// NewECMCreateDocumentRequest calls the generic ECMCreateDocument builder with application/json body
func NewECMCreateDocumentRequest(server string, params *ECMCreateDocumentParams, body ECMCreateDocumentJSONRequestBody) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	queryURL, err := operationURL(server, "/documents")
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := addQueryParam(queryURL, "namespace", params.Namespace); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(http.MethodPost, queryURL.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")

	if params != nil {
		if err := setCallHeaders(req, params.CallHeaders); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// NewECMGetDocumentRequest generates requests for ECMGetDocument
func NewECMGetDocumentRequest(server string, id string, params *ECMGetDocumentParams) (*http.Request, error) {
	queryURL, err := documentURL(server, id, "")
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := addQueryParam(queryURL, "namespace", params.Namespace); err != nil {
			return nil, err
		}
		if err := addQueryParam(queryURL, "version", params.Version); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := setCallHeaders(req, params.CallHeaders); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// NewECMGetDocumentMetadataRequest generates requests for ECMGetDocumentMetadata
func NewECMGetDocumentMetadataRequest(server string, id string, params *ECMGetDocumentMetadataParams) (*http.Request, error) {
	queryURL, err := documentURL(server, id, "/metadata")
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := addQueryParam(queryURL, "namespace", params.Namespace); err != nil {
			return nil, err
		}
		if err := addQueryParam(queryURL, "version", params.Version); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := setCallHeaders(req, params.CallHeaders); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// NewECMUpdateDocumentRequest calls the generic ECMUpdateDocument builder with application/json body
func NewECMUpdateDocumentRequest(server string, id string, params *ECMUpdateDocumentParams, body ECMUpdateDocumentJSONRequestBody) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	queryURL, err := documentURL(server, id, "")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPut, queryURL.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")

	if params != nil {
		if err := setCallHeaders(req, params.CallHeaders); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// NewECMDeleteDocumentRequest generates requests for ECMDeleteDocument
func NewECMDeleteDocumentRequest(server string, id string, params *ECMDeleteDocumentParams) (*http.Request, error) {
	queryURL, err := documentURL(server, id, "")
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := addQueryParam(queryURL, "namespace", params.Namespace); err != nil {
			return nil, err
		}
		if err := addQueryParam(queryURL, "version", params.Version); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(http.MethodDelete, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}
	if params != nil {
		if err := setCallHeaders(req, params.CallHeaders); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func operationURL(server, operationPath string) (*url.URL, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	if operationPath[0] == '/' {
		operationPath = "." + operationPath
	}
	return serverURL.Parse(operationPath)
}

func documentURL(server, id, suffix string) (*url.URL, error) {
	pathParam0, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return nil, err
	}
	return operationURL(server, fmt.Sprintf("/documents/%s%s", pathParam0, suffix))
}

func addQueryParam(queryURL *url.URL, name string, value *string) error {
	if value == nil {
		return nil
	}
	queryValues := queryURL.Query()
	queryFrag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, *value)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(queryFrag)
	if err != nil {
		return err
	}
	for k, v := range parsed {
		for _, v2 := range v {
			queryValues.Add(k, v2)
		}
	}
	queryURL.RawQuery = queryValues.Encode()
	return nil
}

func setCallHeaders(req *http.Request, headers CallHeaders) error {
	if headers.Kpjm != nil {
		headerParam0, err := runtime.StyleParamWithLocation("simple", false, "kpjm", runtime.ParamLocationHeader, *headers.Kpjm)
		if err != nil {
			return err
		}
		req.Header.Set("kpjm", headerParam0)
	}

	required := []struct {
		name  string
		value string
	}{
		{name: "X-Correlation-Id", value: headers.CorrelationId},
		{name: "X-Timestamp", value: headers.Timestamp},
		{name: "X-Source-System", value: headers.SourceSystem},
	}
	for _, h := range required {
		headerParam, err := runtime.StyleParamWithLocation("simple", false, h.name, runtime.ParamLocationHeader, h.value)
		if err != nil {
			return err
		}
		req.Header.Set(h.name, headerParam)
	}
	return nil
}

// ClientWithResponses builds on ClientInterface to offer response payloads
type ClientWithResponses struct {
	ClientInterface
}

// NewClientWithResponses creates a new ClientWithResponses, which wraps
// Client with return type handling
func NewClientWithResponses(server string, opts ...ClientOption) (*ClientWithResponses, error) {
	client, err := NewClient(server, opts...)
	if err != nil {
		return nil, err
	}
	return &ClientWithResponses{client}, nil
}

// ClientWithResponsesInterface is the interface specification for the client with responses above.
type ClientWithResponsesInterface interface {
	ECMCreateDocumentWithResponse(ctx context.Context, params *ECMCreateDocumentParams, body ECMCreateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*ECMCreateDocumentResponse, error)
	ECMGetDocumentWithResponse(ctx context.Context, id string, params *ECMGetDocumentParams, reqEditors ...RequestEditorFn) (*ECMGetDocumentResponse, error)
	ECMGetDocumentMetadataWithResponse(ctx context.Context, id string, params *ECMGetDocumentMetadataParams, reqEditors ...RequestEditorFn) (*ECMGetDocumentMetadataResponse, error)
	ECMUpdateDocumentWithResponse(ctx context.Context, id string, params *ECMUpdateDocumentParams, body ECMUpdateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*ECMUpdateDocumentResponse, error)
	ECMDeleteDocumentWithResponse(ctx context.Context, id string, params *ECMDeleteDocumentParams, reqEditors ...RequestEditorFn) (*ECMDeleteDocumentResponse, error)
}

type ECMCreateDocumentResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *FileNetIdentificator
}

// Status returns HTTPResponse.Status
func (r ECMCreateDocumentResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

// StatusCode returns HTTPResponse.StatusCode
func (r ECMCreateDocumentResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

type ECMGetDocumentResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *GetDocumentResponse
}

func (r ECMGetDocumentResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

func (r ECMGetDocumentResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

type ECMGetDocumentMetadataResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *DocumentMetadataResponse
}

func (r ECMGetDocumentMetadataResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

func (r ECMGetDocumentMetadataResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

type ECMUpdateDocumentResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *FileNetIdentificator
}

func (r ECMUpdateDocumentResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

func (r ECMUpdateDocumentResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

type ECMDeleteDocumentResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *FileNetIdentificator
}

func (r ECMDeleteDocumentResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

func (r ECMDeleteDocumentResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

func (c *ClientWithResponses) ECMCreateDocumentWithResponse(ctx context.Context, params *ECMCreateDocumentParams, body ECMCreateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*ECMCreateDocumentResponse, error) {
	rsp, err := c.ECMCreateDocument(ctx, params, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseECMCreateDocumentResponse(rsp)
}

func (c *ClientWithResponses) ECMGetDocumentWithResponse(ctx context.Context, id string, params *ECMGetDocumentParams, reqEditors ...RequestEditorFn) (*ECMGetDocumentResponse, error) {
	rsp, err := c.ECMGetDocument(ctx, id, params, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseECMGetDocumentResponse(rsp)
}

func (c *ClientWithResponses) ECMGetDocumentMetadataWithResponse(ctx context.Context, id string, params *ECMGetDocumentMetadataParams, reqEditors ...RequestEditorFn) (*ECMGetDocumentMetadataResponse, error) {
	rsp, err := c.ECMGetDocumentMetadata(ctx, id, params, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseECMGetDocumentMetadataResponse(rsp)
}

func (c *ClientWithResponses) ECMUpdateDocumentWithResponse(ctx context.Context, id string, params *ECMUpdateDocumentParams, body ECMUpdateDocumentJSONRequestBody, reqEditors ...RequestEditorFn) (*ECMUpdateDocumentResponse, error) {
	rsp, err := c.ECMUpdateDocument(ctx, id, params, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseECMUpdateDocumentResponse(rsp)
}

func (c *ClientWithResponses) ECMDeleteDocumentWithResponse(ctx context.Context, id string, params *ECMDeleteDocumentParams, reqEditors ...RequestEditorFn) (*ECMDeleteDocumentResponse, error) {
	rsp, err := c.ECMDeleteDocument(ctx, id, params, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseECMDeleteDocumentResponse(rsp)
}

// ParseECMCreateDocumentResponse parses an HTTP response from a ECMCreateDocumentWithResponse call
func ParseECMCreateDocumentResponse(rsp *http.Response) (*ECMCreateDocumentResponse, error) {
	bodyBytes, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &ECMCreateDocumentResponse{Body: bodyBytes, HTTPResponse: rsp}
	if hasJSONBody(rsp, bodyBytes) {
		var dest FileNetIdentificator
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	}
	return response, nil
}

// ParseECMGetDocumentResponse parses an HTTP response from a ECMGetDocumentWithResponse call
func ParseECMGetDocumentResponse(rsp *http.Response) (*ECMGetDocumentResponse, error) {
	bodyBytes, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &ECMGetDocumentResponse{Body: bodyBytes, HTTPResponse: rsp}
	if hasJSONBody(rsp, bodyBytes) {
		var dest GetDocumentResponse
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	}
	return response, nil
}

// ParseECMGetDocumentMetadataResponse parses an HTTP response from a ECMGetDocumentMetadataWithResponse call
func ParseECMGetDocumentMetadataResponse(rsp *http.Response) (*ECMGetDocumentMetadataResponse, error) {
	bodyBytes, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &ECMGetDocumentMetadataResponse{Body: bodyBytes, HTTPResponse: rsp}
	if hasJSONBody(rsp, bodyBytes) {
		var dest DocumentMetadataResponse
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	}
	return response, nil
}

// ParseECMUpdateDocumentResponse parses an HTTP response from a ECMUpdateDocumentWithResponse call
func ParseECMUpdateDocumentResponse(rsp *http.Response) (*ECMUpdateDocumentResponse, error) {
	bodyBytes, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &ECMUpdateDocumentResponse{Body: bodyBytes, HTTPResponse: rsp}
	if hasJSONBody(rsp, bodyBytes) {
		var dest FileNetIdentificator
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	}
	return response, nil
}

// ParseECMDeleteDocumentResponse parses an HTTP response from a ECMDeleteDocumentWithResponse call
func ParseECMDeleteDocumentResponse(rsp *http.Response) (*ECMDeleteDocumentResponse, error) {
	bodyBytes, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &ECMDeleteDocumentResponse{Body: bodyBytes, HTTPResponse: rsp}
	if hasJSONBody(rsp, bodyBytes) {
		var dest FileNetIdentificator
		if err := json.Unmarshal(bodyBytes, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	}
	return response, nil
}

func readBody(rsp *http.Response) ([]byte, error) {
	bodyBytes, err := io.ReadAll(rsp.Body)
	defer func() { _ = rsp.Body.Close() }()
	if err != nil {
		return nil, err
	}
	return bodyBytes, nil
}

// hasJSONBody reports a 2xx response carrying a non-empty JSON document.
// An empty or "null" body is treated as no body at all. The payload lands in
// JSON200 whatever the exact success code.
func hasJSONBody(rsp *http.Response, body []byte) bool {
	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return false
	}
	if !strings.Contains(rsp.Header.Get("Content-Type"), "json") {
		return false
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
