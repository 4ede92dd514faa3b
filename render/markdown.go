package render

import (
	"fmt"
	"io"
	"strings"
)

const markdownHeader = `<!-- Warning: Do not edit this file. It is automatically generated and your
     changes will be overwritten. -->

## Description of configuration options for %s

| Configuration option = Default value | Description |
| --- | --- |
`

type markdownWriter struct{}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
)

func (markdownWriter) header(w io.Writer, category string) error {
	_, err := fmt.Fprintf(w, markdownHeader, category)
	return err
}

func (markdownWriter) group(w io.Writer, group string) error {
	_, err := fmt.Fprintf(w, "| **[%s]** | |\n", markdownEscaper.Replace(group))
	return err
}

func (markdownWriter) row(w io.Writer, c cells) error {
	_, err := fmt.Fprintf(w, "| `%s = %s` | (%s) %s |\n",
		escapeCode(c.name), escapeCode(c.value), markdownEscaper.Replace(c.typ), markdownEscaper.Replace(c.help))
	return err
}

func (markdownWriter) footer(io.Writer) error {
	return nil
}

// escapeCode keeps code spans intact inside a table cell.
func escapeCode(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
