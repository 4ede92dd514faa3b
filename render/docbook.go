package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const docbookHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!-- Warning: Do not edit this file. It is automatically
     generated and your changes will be overwritten.
     The tool to do so lives in the tools directory of this
     repository -->
<para xmlns="http://docbook.org/ns/docbook" version="5.0">
<table rules="all">
  <caption>Description of configuration options for %s</caption>
  <col width="50%%"/>
  <col width="50%%"/>
  <thead>
    <tr>
      <th>Configuration option = Default value</th>
      <th>Description</th>
    </tr>
  </thead>
  <tbody>
`

const docbookFooter = `  </tbody>
</table>
</para>
`

type docbookWriter struct{}

func (docbookWriter) header(w io.Writer, category string) error {
	_, err := fmt.Fprintf(w, docbookHeader, escapeXML(category))
	return err
}

func (docbookWriter) group(w io.Writer, group string) error {
	_, err := fmt.Fprintf(w, "    <tr>\n      <th colspan=\"2\">[%s]</th>\n    </tr>\n", escapeXML(group))
	return err
}

func (docbookWriter) row(w io.Writer, c cells) error {
	_, err := fmt.Fprintf(w, "    <tr>\n      <td>%s = %s</td>\n      <td>(%s) %s</td>\n    </tr>\n",
		escapeXML(c.name), escapeXML(c.value), escapeXML(c.typ), escapeXML(c.help))
	return err
}

func (docbookWriter) footer(w io.Writer) error {
	_, err := io.WriteString(w, docbookFooter)
	return err
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
