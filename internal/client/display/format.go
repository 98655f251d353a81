// FILE: internal/client/display/format.go
package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// PrettyPrintJSON prints v as indented JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}

// PrettyPrintRaw indents a JSON document, printing it unchanged if it is not JSON
func PrettyPrintRaw(w io.Writer, data []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, buf.String())
}
