package cli

import (
	"fmt"
	"strings"

	"github.com/getmockd/httpstub/pkg/cli/internal/output"
	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/config"
	"github.com/getmockd/httpstub/pkg/stub"
	"github.com/spf13/cobra"
)

type listItem struct {
	ID      string         `json:"id"`
	Method  string         `json:"method"`
	Target  string         `json:"target"`
	Pattern bool           `json:"pattern"`
	Options client.Options `json:"options,omitempty"`
	Status  int            `json:"status,omitempty"`
	Source  string         `json:"source"`
}

var listMethod string

var listCmd = &cobra.Command{
	Use:   "list PATTERN...",
	Short: "List the expectations fixtures register",
	Example: `  httpstub list testdata/*.yaml
  httpstub list testdata/*.yaml --method post --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := config.LoadGlob(args...)
		if err != nil {
			return err
		}

		m := stub.New(stub.WithLogger(newLogger(cmd)))
		var items []listItem
		for _, f := range fixtures {
			entries, err := f.Apply(m)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			for _, e := range entries {
				if !listedMethod(e) {
					continue
				}
				items = append(items, newListItem(e, f.Path))
			}
		}

		w := cmd.OutOrStdout()
		return printResult(w, items, func() {
			if len(items) == 0 {
				fmt.Fprintln(w, "No expectations found")
				return
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "METHOD\tTARGET\tKIND\tSTATUS\tSOURCE")
			for _, it := range items {
				kind := "literal"
				if it.Pattern {
					kind = "pattern"
				}
				status := "-"
				if it.Status != 0 {
					status = fmt.Sprint(it.Status)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.Method, it.Target, kind, status, it.Source)
			}
			_ = tw.Flush()
		})
	},
}

func listedMethod(e *stub.Entry) bool {
	return listMethod == "" || strings.EqualFold(listMethod, e.Method())
}

func newListItem(e *stub.Entry, source string) listItem {
	it := listItem{
		ID:      e.ID(),
		Method:  strings.ToUpper(e.Method()),
		Target:  e.Target().String(),
		Pattern: e.IsPattern(),
		Options: e.Options(),
		Source:  source,
	}
	if resp, ok := e.GetResponse(); ok {
		it.Status = resp.StatusCode()
	}
	return it
}

func init() {
	listCmd.Flags().StringVarP(&listMethod, "method", "m", "", "Only list expectations for this method")
	rootCmd.AddCommand(listCmd)
}
