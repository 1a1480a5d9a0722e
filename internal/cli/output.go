package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// printJSON renders v according to the --output flag. The "text" form is a
// compact one-liner suitable for shell pipelines.
func printJSON(v any) error {
	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text":
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json|text)", output)
	}
}

// curlFor prints the curl equivalent of a POST we are about to make, so the
// same request can be replayed against a live policy endpoint.
func curlFor(uri string, body []byte) {
	var buf strings.Builder
	buf.WriteString("curl -sS -X POST")
	buf.WriteString(" -H 'Content-Type: application/json'")
	buf.WriteString(" -d '")
	buf.Write(body)
	buf.WriteString("' ")
	buf.WriteString(uri)
	fmt.Fprintln(os.Stderr, buf.String())
}
