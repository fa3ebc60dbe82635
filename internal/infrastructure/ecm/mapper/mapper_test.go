package mapper

import (
	"bytes"
	"encoding/base64"
	"math"
	"testing"

	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/ecm/ecmapi"
)

func strPtr(v string) *string { return &v }

func TestAttributesRoundTripPreservesOrder(t *testing.T) {
	wire := []ecmapi.FileNetAttribute{
		{Name: "reauthorize", Value: "bob", Type: "TEXT"},
		{Name: "amount", Value: "12.5", Type: "DECIMAL"},
		{Name: "due", Value: "2026-01-31", Type: "DATE"},
	}

	attrs, err := ToDomainAttributes(wire)
	if err != nil {
		t.Fatalf("ToDomainAttributes() error = %v", err)
	}
	back := ToWireAttributes(attrs)
	if len(back) != len(wire) {
		t.Fatalf("expected %d attributes, got %d", len(wire), len(back))
	}
	for i := range wire {
		if back[i] != wire[i] {
			t.Fatalf("attribute %d: expected %#v, got %#v", i, wire[i], back[i])
		}
	}
}

func TestAttributesEmptyInputYieldsEmptyList(t *testing.T) {
	attrs, err := ToDomainAttributes(nil)
	if err != nil {
		t.Fatalf("ToDomainAttributes(nil) error = %v", err)
	}
	if attrs == nil || len(attrs) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", attrs)
	}
	wire := ToWireAttributes(nil)
	if wire == nil || len(wire) != 0 {
		t.Fatalf("expected empty non-nil wire list, got %#v", wire)
	}
}

func TestToDomainAttributesRejectsUnknownType(t *testing.T) {
	_, err := ToDomainAttributes([]ecmapi.FileNetAttribute{{Name: "x", Value: "1", Type: "text"}})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestContentEncodingRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0xff, 'a', 'b', 'c'}
	encoded := EncodeContent(payload)
	if encoded == nil {
		t.Fatalf("expected encoded content")
	}
	decoded, err := DecodeContent(encoded)
	if err != nil {
		t.Fatalf("DecodeContent() error = %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("expected %v, got %v", payload, decoded)
	}

	if EncodeContent(nil) != nil || EncodeContent([]byte{}) != nil {
		t.Fatalf("expected nil encoding for empty content")
	}
	decoded, err = DecodeContent(strPtr("  "))
	if err != nil || decoded != nil {
		t.Fatalf("expected nil content for blank input, got %v (err=%v)", decoded, err)
	}
}

func TestSizeFromEncodedUsesDecodedLength(t *testing.T) {
	size, err := SizeFromEncoded(nil)
	if err != nil || size != nil {
		t.Fatalf("expected unknown size for nil input, got %v (err=%v)", size, err)
	}
	size, err = SizeFromEncoded(EncodeContent(nil))
	if err != nil || size != nil {
		t.Fatalf("expected unknown size for empty payload, got %v (err=%v)", size, err)
	}

	for _, n := range []int{1, 1000} {
		encoded := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{'x'}, n))
		size, err := SizeFromEncoded(&encoded)
		if err != nil {
			t.Fatalf("SizeFromEncoded() error = %v", err)
		}
		if size == nil || *size != int64(n) {
			t.Fatalf("expected size %d, got %v", n, size)
		}
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     "report",
		".gitignore":     ".gitignore",
		"archive.tar.gz": "archive.tar",
		"README":         "README",
		"":               "",
	}
	for in, want := range cases {
		got, err := DeriveTitle(strPtr(in))
		if err != nil {
			t.Fatalf("DeriveTitle(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("DeriveTitle(%q): expected %q, got %q", in, want, got)
		}
	}

	if _, err := DeriveTitle(nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil filename, got %v", err)
	}
}

func TestCoerceSize(t *testing.T) {
	size, err := CoerceSize(strPtr("1024.0"))
	if err != nil {
		t.Fatalf("CoerceSize() error = %v", err)
	}
	if size == nil || *size != 1024 {
		t.Fatalf("expected 1024, got %v", size)
	}
	size, err = CoerceSize(strPtr("99.9"))
	if err != nil || size == nil || *size != 99 {
		t.Fatalf("expected truncation to 99, got %v (err=%v)", size, err)
	}
	for _, in := range []*string{nil, strPtr(""), strPtr("  ")} {
		size, err := CoerceSize(in)
		if err != nil || size != nil {
			t.Fatalf("expected unknown size, got %v (err=%v)", size, err)
		}
	}
	if _, err := CoerceSize(strPtr("big")); err == nil || domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unclassified parse error, got %v", err)
	}

	tests := []struct {
		in   string
		want int64
	}{
		{in: "1e20", want: math.MaxInt64},
		{in: "-1e20", want: math.MinInt64},
		{in: "1e400", want: math.MaxInt64},
		{in: "Inf", want: math.MaxInt64},
		{in: "-Inf", want: math.MinInt64},
		{in: "NaN", want: 0},
		{in: "-3.7", want: -3},
	}
	for _, tc := range tests {
		size, err := CoerceSize(strPtr(tc.in))
		if err != nil {
			t.Fatalf("CoerceSize(%q) error = %v", tc.in, err)
		}
		if size == nil || *size != tc.want {
			t.Fatalf("CoerceSize(%q) = %v, want %d", tc.in, size, tc.want)
		}
	}
}

func TestDecodeContentErrorIsNotInputError(t *testing.T) {
	_, err := DecodeContent(strPtr("not base64!"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("malformed ECM content must not be reported as caller input, got %v", err)
	}
}

func TestDocumentIDRequiresNonBlankID(t *testing.T) {
	m := New("pwf")
	if id := m.DocumentID(nil); id != nil {
		t.Fatalf("expected nil id for nil identificator, got %#v", id)
	}
	if id := m.DocumentID(&ecmapi.FileNetIdentificator{Id: strPtr(" ")}); id != nil {
		t.Fatalf("expected nil id for blank identificator, got %#v", id)
	}
	id := m.DocumentID(&ecmapi.FileNetIdentificator{Id: strPtr("F-1"), Version: strPtr("3")})
	if id == nil || id.Namespace != "pwf" || id.ID != "F-1" || id.Version != "3" {
		t.Fatalf("unexpected id %#v", id)
	}
}

func TestInfoFromMetadataUsesResponseNamespace(t *testing.T) {
	m := New("pwf")
	info, err := m.InfoFromMetadata(&ecmapi.DocumentMetadataResponse{
		Id:          &ecmapi.FileNetIdentificator{Id: strPtr("F-9"), Version: strPtr("1")},
		Namespace:   strPtr("archive"),
		Filename:    strPtr("invoice.pdf"),
		Mimetype:    strPtr("application/pdf"),
		SizeInBytes: strPtr("10.0"),
		Attributes:  []ecmapi.FileNetAttribute{{Name: "reauthorize", Value: "bob", Type: "TEXT"}},
	})
	if err != nil {
		t.Fatalf("InfoFromMetadata() error = %v", err)
	}
	if info.ID == nil || info.ID.Namespace != "archive" || info.ID.ID != "F-9" {
		t.Fatalf("unexpected id %#v", info.ID)
	}
	if info.SizeInBytes == nil || *info.SizeInBytes != 10 {
		t.Fatalf("expected size 10, got %v", info.SizeInBytes)
	}
	if len(info.ID.Attributes) != 1 || info.ID.Attributes[0].Value != "bob" {
		t.Fatalf("expected identity attributes, got %#v", info.ID.Attributes)
	}
	if info.Filename != "invoice.pdf" || info.MimeType != "application/pdf" {
		t.Fatalf("unexpected info %#v", info)
	}
}

func TestInfoFromMetadataWithoutIDHasNilIdentity(t *testing.T) {
	info, err := New("pwf").InfoFromMetadata(&ecmapi.DocumentMetadataResponse{Filename: strPtr("x.txt")})
	if err != nil {
		t.Fatalf("InfoFromMetadata() error = %v", err)
	}
	if info.ID != nil {
		t.Fatalf("expected nil identity, got %#v", info.ID)
	}
}

func TestCreateRequestDerivesTitle(t *testing.T) {
	req, err := New("pwf").CreateRequest(domain.NewDocument{
		Filename: strPtr("invoice.pdf"),
		Content:  []byte("0123456789"),
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if req.Title != "invoice" || req.Filename != "invoice.pdf" {
		t.Fatalf("unexpected request %#v", req)
	}
	if req.Mimetype != nil {
		t.Fatalf("expected no mimetype, got %v", *req.Mimetype)
	}
	if req.Data == nil || *req.Data != base64.StdEncoding.EncodeToString([]byte("0123456789")) {
		t.Fatalf("unexpected data %v", req.Data)
	}
	if req.Attributes == nil {
		t.Fatalf("expected empty attribute list, got nil")
	}

	if _, err := New("pwf").CreateRequest(domain.NewDocument{}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing filename, got %v", err)
	}
}

func TestUpdateRequestCarriesNamespace(t *testing.T) {
	req := New("pwf").UpdateRequest(domain.DocumentUpdate{MimeType: "text/plain"})
	if req.Namespace != "pwf" {
		t.Fatalf("expected namespace pwf, got %q", req.Namespace)
	}
	if req.Data != nil {
		t.Fatalf("expected no data for empty content")
	}
	if req.Mimetype == nil || *req.Mimetype != "text/plain" {
		t.Fatalf("unexpected mimetype %v", req.Mimetype)
	}
}

func TestDataFromContent(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))
	data, err := New("pwf").DataFromContent(&ecmapi.GetDocumentResponse{
		Id:       &ecmapi.FileNetIdentificator{Id: strPtr("F-2")},
		FileName: strPtr("hello.txt"),
		Content:  &encoded,
	})
	if err != nil {
		t.Fatalf("DataFromContent() error = %v", err)
	}
	if string(data.Content) != "hello" {
		t.Fatalf("expected hello, got %q", data.Content)
	}
	if data.Info.SizeInBytes == nil || *data.Info.SizeInBytes != 5 {
		t.Fatalf("expected size 5, got %v", data.Info.SizeInBytes)
	}
	if data.Info.Attributes == nil || len(data.Info.Attributes) != 0 {
		t.Fatalf("expected empty attributes, got %#v", data.Info.Attributes)
	}

	empty, err := New("pwf").DataFromContent(&ecmapi.GetDocumentResponse{Id: &ecmapi.FileNetIdentificator{Id: strPtr("F-3")}})
	if err != nil {
		t.Fatalf("DataFromContent() error = %v", err)
	}
	if empty.Content != nil || empty.Info.SizeInBytes != nil {
		t.Fatalf("expected absent content and size, got %#v", empty)
	}
}
