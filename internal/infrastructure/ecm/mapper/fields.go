package mapper

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/ecm/ecmapi"
)

// ToDomainAttributes rejects any wire type that is not an exact attribute type name.
func ToDomainAttributes(attrs []ecmapi.FileNetAttribute) ([]domain.Attribute, error) {
	out := make([]domain.Attribute, 0, len(attrs))
	for _, a := range attrs {
		t, err := domain.ParseAttributeType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		out = append(out, domain.Attribute{Name: a.Name, Value: a.Value, Type: t})
	}
	return out, nil
}

func ToWireAttributes(attrs []domain.Attribute) []ecmapi.FileNetAttribute {
	out := make([]ecmapi.FileNetAttribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, ecmapi.FileNetAttribute{Name: a.Name, Value: a.Value, Type: string(a.Type)})
	}
	return out
}

// EncodeContent returns nil for empty content so "no content" never travels
// as an empty string.
func EncodeContent(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded
}

// DecodeContent returns nil when no content is available. Malformed content
// comes from the ECM, so the error carries no input kind.
func DecodeContent(encoded *string) ([]byte, error) {
	if isBlank(encoded) {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*encoded))
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return data, nil
}

// SizeFromEncoded reports the decoded byte length, not the encoded one.
func SizeFromEncoded(encoded *string) (*int64, error) {
	if isBlank(encoded) {
		return nil, nil
	}
	data, err := DecodeContent(encoded)
	if err != nil {
		return nil, err
	}
	size := int64(len(data))
	return &size, nil
}

// DeriveTitle strips the last extension. A dot at position 0 does not start
// an extension, so ".gitignore" stays as is.
func DeriveTitle(filename *string) (string, error) {
	if filename == nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "derive title", errors.New("attribute 'filename' can not be null"))
	}
	name := *filename
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx], nil
	}
	return name, nil
}

// CoerceSize parses the wire size, a decimal string such as "1024.0", and
// truncates it to whole bytes. NaN becomes 0 and out-of-range values
// saturate at the int64 bounds.
func CoerceSize(value *string) (*int64, error) {
	if isBlank(value) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("parse size %q: %w", *value, err)
	}
	size := truncate(f)
	return &size, nil
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
