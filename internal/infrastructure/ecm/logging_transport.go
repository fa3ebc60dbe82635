package ecm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const redactedValue = "#"

// LoggingTransport logs every ECM exchange at debug level. Unless debug is
// on, string values of the configured JSON fields are replaced by "#" so
// document payloads never reach the log.
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
	debug  bool
	redact map[string]struct{}
}

func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger, debug bool, redactFields []string) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	redact := make(map[string]struct{}, len(redactFields))
	for _, f := range redactFields {
		f = strings.TrimSpace(f)
		if f != "" {
			redact[f] = struct{}{}
		}
	}
	return &LoggingTransport{next: next, logger: logger, debug: debug, redact: redact}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !t.logger.Enabled(ctx, slog.LevelDebug) {
		return t.next.RoundTrip(req)
	}

	reqBody, err := drain(&req.Body)
	if err != nil {
		return nil, err
	}
	t.logger.DebugContext(ctx, "ecm_request",
		"method", req.Method,
		"uri", req.URL.String(),
		"headers", headerMap(req.Header),
		"body", t.render(reqBody),
	)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.DebugContext(ctx, "ecm_response_failed",
			"method", req.Method,
			"uri", req.URL.String(),
			"elapsed_ms", float64(time.Since(start).Microseconds())/1000.0,
			"error", err,
		)
		return nil, err
	}

	respBody, err := drain(&resp.Body)
	if err != nil {
		return nil, err
	}
	t.log(ctx, req, resp, respBody, time.Since(start))
	return resp, nil
}

func (t *LoggingTransport) log(ctx context.Context, req *http.Request, resp *http.Response, body []byte, elapsed time.Duration) {
	t.logger.DebugContext(ctx, "ecm_response",
		"method", req.Method,
		"uri", req.URL.String(),
		"status", resp.StatusCode,
		"headers", headerMap(resp.Header),
		"body", t.render(body),
		"elapsed_ms", float64(elapsed.Microseconds())/1000.0,
	)
}

// render returns the body as it should appear in the log.
func (t *LoggingTransport) render(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if t.debug || len(t.redact) == 0 {
		return string(body)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "<non-json body, " + strconv.Itoa(len(body)) + " bytes>"
	}
	redacted, err := json.Marshal(t.redactValue(doc))
	if err != nil {
		return "<unprintable body>"
	}
	return string(redacted)
}

func (t *LoggingTransport) redactValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		for key, inner := range typed {
			if _, ok := t.redact[key]; ok {
				if _, isString := inner.(string); isString {
					typed[key] = redactedValue
					continue
				}
			}
			typed[key] = t.redactValue(inner)
		}
		return typed
	case []any:
		for i := range typed {
			typed[i] = t.redactValue(typed[i])
		}
		return typed
	default:
		return v
	}
}

// drain reads a body and puts an equivalent reader back in its place.
func drain(body *io.ReadCloser) ([]byte, error) {
	if body == nil || *body == nil || *body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(*body)
	_ = (*body).Close()
	if err != nil {
		return nil, err
	}
	*body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}

func headerMap(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		if strings.EqualFold(key, "Authorization") {
			out[key] = redactedValue
			continue
		}
		out[key] = strings.Join(values, ",")
	}
	return out
}
