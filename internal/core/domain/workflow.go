package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RequestContext carries the caller headers of one workflow job.
type RequestContext struct {
	Headers map[string]any
}

// Header renders the header value under key as a string. Absent context,
// absent key and JSON null all report ok=false.
func (rc *RequestContext) Header(key string) (string, bool) {
	if rc == nil || rc.Headers == nil {
		return "", false
	}
	v, ok := rc.Headers[key]
	if !ok || v == nil {
		return "", false
	}
	switch typed := v.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

// ParseWorkflowVariables decodes the serialized workflow context
// ({"headers": {...}}) handed over by the engine. Numbers keep their literal
// text so a numeric uid renders exactly as sent.
func ParseWorkflowVariables(raw string) (RequestContext, error) {
	if strings.TrimSpace(raw) == "" {
		return RequestContext{Headers: map[string]any{}}, nil
	}

	var payload struct {
		Headers map[string]any `json:"headers"`
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return RequestContext{}, WrapError(ErrInvalidInput, "parse workflow variables", err)
	}
	if dec.More() {
		return RequestContext{}, WrapError(ErrInvalidInput, "parse workflow variables", errors.New("trailing data after workflow context"))
	}
	if payload.Headers == nil {
		payload.Headers = map[string]any{}
	}
	return RequestContext{Headers: payload.Headers}, nil
}
