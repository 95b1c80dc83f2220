package importdoc

import "errors"

// DocumentType selects the parameter binding used for the imported
// document. The zero value is TEXT, the command line default.
type DocumentType int

const (
	DocumentText DocumentType = iota
	DocumentXML
	DocumentBytea
)

// ParseDocumentType accepts the exact literals XML, TEXT and BYTEA.
func ParseDocumentType(s string) (DocumentType, error) {
	switch s {
	case "XML":
		return DocumentXML, nil
	case "TEXT":
		return DocumentText, nil
	case "BYTEA":
		return DocumentBytea, nil
	}
	return DocumentText, errors.New("only XML, TEXT or BYTEA types are supported")
}

func (t DocumentType) String() string {
	switch t {
	case DocumentXML:
		return "XML"
	case DocumentBytea:
		return "BYTEA"
	default:
		return "TEXT"
	}
}

// PromptPolicy controls interactive password prompting.
type PromptPolicy int

const (
	PromptDefault PromptPolicy = iota // prompt only when the server demands it
	PromptNever                       // -w
	PromptAlways                      // -W
)

type Config struct {
	Host     string // empty: client library environment fallback
	Port     uint16 // zero: client library environment fallback
	User     string // empty: client library environment fallback
	Prompt   PromptPolicy
	Database string
	Command  string // parameterized SQL text with a $1 placeholder
	Filename string // empty means standard input
	Type     DocumentType
	Encoding string // optional client_encoding override
	Verbose  bool
	ProgName string
}
