package domain

import "fmt"

type AttributeType string

const (
	AttributeText     AttributeType = "TEXT"
	AttributeNumber   AttributeType = "NUMBER"
	AttributeInteger  AttributeType = "INTEGER"
	AttributeLong     AttributeType = "LONG"
	AttributeDecimal  AttributeType = "DECIMAL"
	AttributeBoolean  AttributeType = "BOOLEAN"
	AttributeDate     AttributeType = "DATE"
	AttributeDateTime AttributeType = "DATETIME"
	AttributeID       AttributeType = "ID"
)

var attributeTypes = map[AttributeType]struct{}{
	AttributeText:     {},
	AttributeNumber:   {},
	AttributeInteger:  {},
	AttributeLong:     {},
	AttributeDecimal:  {},
	AttributeBoolean:  {},
	AttributeDate:     {},
	AttributeDateTime: {},
	AttributeID:       {},
}

// ParseAttributeType accepts only exact, case-sensitive enumeration names.
func ParseAttributeType(raw string) (AttributeType, error) {
	t := AttributeType(raw)
	if _, ok := attributeTypes[t]; !ok {
		return "", WrapError(ErrInvalidInput, "parse attribute type", fmt.Errorf("unknown attribute type %q", raw))
	}
	return t, nil
}

// UnmarshalText lets decoders reject unknown attribute types up front.
func (t *AttributeType) UnmarshalText(text []byte) error {
	parsed, err := ParseAttributeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Attribute struct {
	Name  string        `json:"name"`
	Value string        `json:"value"`
	Type  AttributeType `json:"type"`
}

// DocumentID identifies one document revision in a namespace. The optional
// fields carry what the repository reported when the identity was read.
type DocumentID struct {
	Namespace   string      `json:"namespace"`
	ID          string      `json:"id"`
	Version     string      `json:"version,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	Filename    *string     `json:"filename,omitempty"`
	MimeType    *string     `json:"mime_type,omitempty"`
	SizeInBytes *int64      `json:"size_in_bytes,omitempty"`
}

type DocumentInfo struct {
	ID          *DocumentID `json:"id"`
	Filename    string      `json:"filename,omitempty"`
	MimeType    string      `json:"mime_type,omitempty"`
	SizeInBytes *int64      `json:"size_in_bytes,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

type DocumentData struct {
	Info    *DocumentInfo `json:"info"`
	Content []byte        `json:"content"`
}

type NewDocument struct {
	Filename *string     `json:"filename"`
	MimeType string      `json:"mime_type,omitempty"`
	Content  []byte      `json:"content"`
	Metadata []Attribute `json:"metadata"`
}

type DocumentUpdate struct {
	Content    []byte      `json:"content"`
	MimeType   string      `json:"mime_type,omitempty"`
	Attributes []Attribute `json:"attributes"`
}

type DocumentStorno struct {
	Reason string `json:"reason,omitempty"`
}
