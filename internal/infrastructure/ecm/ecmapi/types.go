// Package ecmapi is the typed client of the PWF ECM FileNet document API
// described by ecm.yaml.
package ecmapi

// FileNetAttribute defines model for FileNetAttribute.
type FileNetAttribute struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// FileNetIdentificator defines model for FileNetIdentificator.
type FileNetIdentificator struct {
	Id      *string `json:"id,omitempty"`
	Version *string `json:"version,omitempty"`
}

// CreateDocumentBodyRequest defines model for CreateDocumentBodyRequest.
type CreateDocumentBodyRequest struct {
	Attributes []FileNetAttribute `json:"attributes"`
	Data       *string            `json:"data,omitempty"`
	Filename   string             `json:"filename"`
	Mimetype   *string            `json:"mimetype,omitempty"`
	Title      string             `json:"title"`
}

// UpdateDocumentBodyRequest defines model for UpdateDocumentBodyRequest.
type UpdateDocumentBodyRequest struct {
	Attributes []FileNetAttribute `json:"attributes"`
	Data       *string            `json:"data,omitempty"`
	Mimetype   *string            `json:"mimetype,omitempty"`
	Namespace  string             `json:"namespace"`
}

// DocumentMetadataResponse defines model for DocumentMetadataResponse.
type DocumentMetadataResponse struct {
	Attributes  []FileNetAttribute    `json:"attributes,omitempty"`
	Filename    *string               `json:"filename,omitempty"`
	Id          *FileNetIdentificator `json:"id,omitempty"`
	Mimetype    *string               `json:"mimetype,omitempty"`
	Namespace   *string               `json:"namespace,omitempty"`
	SizeInBytes *string               `json:"sizeInBytes,omitempty"`
}

// GetDocumentResponse defines model for GetDocumentResponse.
type GetDocumentResponse struct {
	Content  *string               `json:"content,omitempty"`
	FileName *string               `json:"fileName,omitempty"`
	Id       *FileNetIdentificator `json:"id,omitempty"`
	MimeType *string               `json:"mimeType,omitempty"`
}

// CallHeaders are the tracing and attribution headers every operation carries.
type CallHeaders struct {
	Kpjm          *string
	CorrelationId string
	Timestamp     string
	SourceSystem  string
}

// ECMCreateDocumentParams defines parameters for ECMCreateDocument.
type ECMCreateDocumentParams struct {
	CallHeaders
	Namespace *string
}

// ECMGetDocumentParams defines parameters for ECMGetDocument.
type ECMGetDocumentParams struct {
	CallHeaders
	Namespace *string
	Version   *string
}

// ECMGetDocumentMetadataParams defines parameters for ECMGetDocumentMetadata.
type ECMGetDocumentMetadataParams struct {
	CallHeaders
	Namespace *string
	Version   *string
}

// ECMUpdateDocumentParams defines parameters for ECMUpdateDocument.
type ECMUpdateDocumentParams struct {
	CallHeaders
}

// ECMDeleteDocumentParams defines parameters for ECMDeleteDocument.
type ECMDeleteDocumentParams struct {
	CallHeaders
	Namespace *string
	Version   *string
}

// ECMCreateDocumentJSONRequestBody defines body for ECMCreateDocument for application/json ContentType.
type ECMCreateDocumentJSONRequestBody = CreateDocumentBodyRequest

// ECMUpdateDocumentJSONRequestBody defines body for ECMUpdateDocument for application/json ContentType.
type ECMUpdateDocumentJSONRequestBody = UpdateDocumentBodyRequest
