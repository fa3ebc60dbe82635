// Package mapper translates between the ECM wire model and the workflow
// document model. Every function is pure; the only configuration is the
// default namespace given to New.
package mapper

import (
	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/ecm/ecmapi"
)

type Mapper struct {
	namespace string
}

func New(namespace string) *Mapper {
	return &Mapper{namespace: namespace}
}

func (m *Mapper) Namespace() string {
	return m.namespace
}

func (m *Mapper) CreateRequest(doc domain.NewDocument) (ecmapi.CreateDocumentBodyRequest, error) {
	title, err := DeriveTitle(doc.Filename)
	if err != nil {
		return ecmapi.CreateDocumentBodyRequest{}, err
	}
	return ecmapi.CreateDocumentBodyRequest{
		Filename:   *doc.Filename,
		Title:      title,
		Mimetype:   optional(doc.MimeType),
		Data:       EncodeContent(doc.Content),
		Attributes: ToWireAttributes(doc.Metadata),
	}, nil
}

func (m *Mapper) UpdateRequest(update domain.DocumentUpdate) ecmapi.UpdateDocumentBodyRequest {
	return ecmapi.UpdateDocumentBodyRequest{
		Namespace:  m.namespace,
		Mimetype:   optional(update.MimeType),
		Data:       EncodeContent(update.Content),
		Attributes: ToWireAttributes(update.Attributes),
	}
}

// DocumentID returns nil unless the identificator carries a non-blank id.
func (m *Mapper) DocumentID(ident *ecmapi.FileNetIdentificator) *domain.DocumentID {
	if ident == nil || isBlank(ident.Id) {
		return nil
	}
	return &domain.DocumentID{
		Namespace: m.namespace,
		ID:        *ident.Id,
		Version:   deref(ident.Version),
	}
}

// DocumentIDFromMetadata builds the full identity reported by a metadata
// response, namespace included.
func (m *Mapper) DocumentIDFromMetadata(resp *ecmapi.DocumentMetadataResponse) (*domain.DocumentID, error) {
	if resp == nil || resp.Id == nil || isBlank(resp.Id.Id) {
		return nil, nil
	}
	attrs, err := ToDomainAttributes(resp.Attributes)
	if err != nil {
		return nil, err
	}
	size, err := CoerceSize(resp.SizeInBytes)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentID{
		Namespace:   deref(resp.Namespace),
		ID:          *resp.Id.Id,
		Version:     deref(resp.Id.Version),
		Attributes:  attrs,
		Filename:    resp.Filename,
		MimeType:    resp.Mimetype,
		SizeInBytes: size,
	}, nil
}

func (m *Mapper) InfoFromMetadata(resp *ecmapi.DocumentMetadataResponse) (*domain.DocumentInfo, error) {
	if resp == nil {
		return nil, nil
	}
	id, err := m.DocumentIDFromMetadata(resp)
	if err != nil {
		return nil, err
	}
	attrs, err := ToDomainAttributes(resp.Attributes)
	if err != nil {
		return nil, err
	}
	size, err := CoerceSize(resp.SizeInBytes)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentInfo{
		ID:          id,
		Filename:    deref(resp.Filename),
		MimeType:    deref(resp.Mimetype),
		SizeInBytes: size,
		Attributes:  attrs,
	}, nil
}

// InfoFromCreated echoes the submitted document under the identifier the
// repository assigned.
func (m *Mapper) InfoFromCreated(ident *ecmapi.FileNetIdentificator, doc domain.NewDocument) *domain.DocumentInfo {
	return &domain.DocumentInfo{
		ID:         m.DocumentID(ident),
		Filename:   deref(doc.Filename),
		MimeType:   doc.MimeType,
		Attributes: nonNil(doc.Metadata),
	}
}

// InfoFromUpdated carries no filename: an update never renames a document.
func (m *Mapper) InfoFromUpdated(ident *ecmapi.FileNetIdentificator, update domain.DocumentUpdate) *domain.DocumentInfo {
	return &domain.DocumentInfo{
		ID:         m.DocumentID(ident),
		MimeType:   update.MimeType,
		Attributes: nonNil(update.Attributes),
	}
}

// InfoFromContent maps a content response. Content responses carry no
// attributes, so the list is always empty.
func (m *Mapper) InfoFromContent(resp *ecmapi.GetDocumentResponse) (*domain.DocumentInfo, error) {
	if resp == nil {
		return nil, nil
	}
	size, err := SizeFromEncoded(resp.Content)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentInfo{
		ID:          m.DocumentID(resp.Id),
		Filename:    deref(resp.FileName),
		MimeType:    deref(resp.MimeType),
		SizeInBytes: size,
		Attributes:  []domain.Attribute{},
	}, nil
}

func (m *Mapper) DataFromContent(resp *ecmapi.GetDocumentResponse) (*domain.DocumentData, error) {
	if resp == nil {
		return nil, nil
	}
	info, err := m.InfoFromContent(resp)
	if err != nil {
		return nil, err
	}
	content, err := DecodeContent(resp.Content)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentData{Info: info, Content: content}, nil
}

func nonNil(attrs []domain.Attribute) []domain.Attribute {
	if attrs == nil {
		return []domain.Attribute{}
	}
	return attrs
}
