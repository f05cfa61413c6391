package cli

import (
	"io"

	"github.com/getmockd/httpstub/pkg/cli/internal/output"
)

// printResult writes data to w.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to w. textFn is called only in text mode.
func printResult(w io.Writer, data any, textFn func()) error {
	if jsonOutput {
		return output.JSON(w, data)
	}
	textFn()
	return nil
}
