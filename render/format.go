package render

import (
	"fmt"
	"strings"
)

// Format selects the table markup.
type Format string

const (
	FormatDocBook  Format = "docbook"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatDocBook, FormatMarkdown}

// ParseFormat accepts a format name in any case. "md" and "xml" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "docbook", "xml":
		return FormatDocBook, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported format %q (want docbook or markdown)", s)
}

func (f Format) String() string {
	return string(f)
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Extension returns the file extension of generated tables.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".xml"
}

func (f Format) writer() tableWriter {
	if f == FormatMarkdown {
		return markdownWriter{}
	}
	return docbookWriter{}
}
