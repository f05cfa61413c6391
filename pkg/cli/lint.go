package cli

import (
	"fmt"
	"strings"

	"github.com/getmockd/httpstub/pkg/config"
	"github.com/getmockd/httpstub/pkg/stub"
	"github.com/spf13/cobra"
)

type lintResult struct {
	Path         string   `json:"path"`
	Valid        bool     `json:"valid"`
	Expectations int      `json:"expectations"`
	Errors       []string `json:"errors,omitempty"`
}

var lintCmd = &cobra.Command{
	Use:   "lint PATTERN...",
	Short: "Validate fixture files",
	Long: `Check every fixture matching the patterns against the fixture schema, load
it and register its expectations on a scratch stub. All files are checked; the command fails if
any of them is invalid.`,
	Example: `  httpstub lint testdata/*.yaml
  httpstub lint 'fixtures/**/*.yml' --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := config.Expand(args...)
		if err != nil {
			return err
		}

		logger := newLogger(cmd)
		results := make([]lintResult, 0, len(paths))
		failed := 0
		for _, path := range paths {
			r := lintFile(path, stub.New(stub.WithLogger(logger)))
			if !r.Valid {
				failed++
			}
			results = append(results, r)
		}

		w := cmd.OutOrStdout()
		err = printResult(w, results, func() {
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(w, "ok    %s (%d expectations)\n", r.Path, r.Expectations)
					continue
				}
				fmt.Fprintf(w, "FAIL  %s\n", r.Path)
				for _, msg := range r.Errors {
					fmt.Fprintf(w, "      - %s\n", msg)
				}
			}
		})
		if err != nil {
			return err
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d fixture files are invalid", failed, len(paths))
		}
		return nil
	},
}

func lintFile(path string, m *stub.Mock) lintResult {
	r := lintResult{Path: path}

	var f *config.Fixture
	err := config.CheckFile(path)
	if err == nil {
		f, err = config.LoadFile(path)
	}
	if err == nil {
		_, err = f.Apply(m)
	}
	if err != nil {
		r.Errors = strings.Split(err.Error(), "\n")
		return r
	}

	r.Valid = true
	r.Expectations = len(f.Expectations)
	return r
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
