package ecm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/resilience"
)

// HTTPStatusError is a non-2xx answer of the ECM other than 404.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "ecm status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("ecm %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("ecm %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

const maxErrorBody = 2048

// checkStatus turns an ECM answer into an error. 2xx and 404 pass: both end
// up as "no usable body" when there is nothing to decode.
func checkStatus(operation string, resp *http.Response, body []byte) error {
	if resp == nil {
		return fmt.Errorf("ecm %s: empty http response", operation)
	}
	if resp.StatusCode < 300 || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}
}

// recordsFailure decides whether err counts against the breaker.
func recordsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return isTemporaryHTTPStatus(statusErr.StatusCode)
	}
	return true
}

// classifyCallError maps a failed call onto the domain error kinds. Errors
// with no matching kind are returned unchanged.
func classifyCallError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return domain.WrapError(domain.ErrUnauthorized, operation, err)
		case isTemporaryHTTPStatus(statusErr.StatusCode):
			return domain.WrapError(domain.ErrTemporary, operation, err)
		default:
			return err
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func isTemporaryHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= http.StatusInternalServerError
	}
}
