package frontmatter

import (
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

// Status tells how a document's frontmatter was resolved.
type Status int

const (
	// StatusAbsent means the document has no frontmatter block.
	StatusAbsent Status = iota
	// StatusParsed means a block was found and parsed into a mapping.
	StatusParsed
	// StatusMalformed means a block was found but could not be parsed.
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusParsed:
		return "parsed"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Extraction is the outcome of Extract.
//
// For StatusAbsent and StatusMalformed, Fields is empty and Body is the
// complete input. Err is set only for StatusMalformed.
type Extraction struct {
	Fields *Map
	Body   string
	Status Status
	Err    error
}

// Degraded reports whether the frontmatter was present but unusable.
func (e Extraction) Degraded() bool {
	return e.Status == StatusMalformed
}

// Extract splits and parses the frontmatter of a Markdown document.
// It never fails: parse errors are reported through Status and Err.
func Extract(markdown string) Extraction {
	raw, body, had := Split(markdown)
	if !had {
		return Extraction{Fields: NewMap(), Body: markdown, Status: StatusAbsent}
	}

	fields, err := ParseYAML(raw)
	if err != nil {
		return Extraction{
			Fields: NewMap(),
			Body:   markdown,
			Status: StatusMalformed,
			Err: derrors.WrapError(err, derrors.CategoryFrontmatter, "failed to parse frontmatter").
				Warning().
				Build(),
		}
	}

	return Extraction{Fields: fields, Body: body, Status: StatusParsed}
}
