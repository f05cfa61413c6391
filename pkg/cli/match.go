package cli

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/config"
	"github.com/getmockd/httpstub/pkg/stub"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

// errNoMatch is returned when no expectation accepts the call.
var errNoMatch = errors.New("no expectation matched")

var (
	matchMethod  string
	matchURL     string
	matchParams  []string
	matchHeaders []string
	matchCookies []string
	matchJSON    string
	matchData    string
	matchForm    []string
)

type matchOutput struct {
	Matched     bool            `json:"matched"`
	EntryID     string          `json:"entryId,omitempty"`
	Expectation string          `json:"expectation,omitempty"`
	Status      int             `json:"status,omitempty"`
	Body        string          `json:"body,omitempty"`
	NearMisses  []stub.NearMiss `json:"nearMisses,omitempty"`
}

var matchCmd = &cobra.Command{
	Use:   "match PATTERN...",
	Short: "Replay a call against fixtures",
	Long: `Register the fixtures on a scratch stub and match a single call against
them. Prints the canned response of the matching expectation, or the closest
near misses when nothing matches.`,
	Example: `  httpstub match testdata/*.yaml --method post --url https://host/endpoint --json-body '{"param": [1, 2]}'
  httpstub match testdata/*.yaml --url https://host/search --param q=go --header X-Token=abc
  httpstub match testdata/*.yaml --method post --url https://host/login --form user=ann --form scope=read`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := matchOptions()
		if err != nil {
			return err
		}

		fixtures, err := config.LoadGlob(args...)
		if err != nil {
			return err
		}

		m := stub.New(stub.WithLogger(newLogger(cmd)))
		if _, err := config.ApplyAll(m, fixtures); err != nil {
			return err
		}

		res, err := m.Match(matchMethod, matchURL, opts)
		if err != nil {
			return err
		}

		out := matchOutput{Matched: res != nil}
		if res != nil {
			out.EntryID = res.Entry.ID()
			out.Expectation = res.Entry.String()
			out.Status = res.Response.StatusCode()
			if out.Body, err = res.Response.Text(); err != nil {
				return err
			}
		} else {
			out.NearMisses = m.NearMisses(matchMethod, matchURL, opts)
		}

		w := cmd.OutOrStdout()
		err = printResult(w, out, func() {
			if out.Matched {
				fmt.Fprintf(w, "matched %s\n", out.Expectation)
				fmt.Fprintf(w, "status  %d\n", out.Status)
				if out.Body != "" {
					fmt.Fprintf(w, "body    %s\n", out.Body)
				}
				return
			}
			fmt.Fprintf(w, "no match for %s %s\n", strings.ToUpper(matchMethod), matchURL)
			for _, nm := range out.NearMisses {
				fmt.Fprintf(w, "  %3d%%  %s: %s\n", nm.MatchPercentage, nm.Target, nm.Reason)
			}
		})
		if err != nil {
			return err
		}

		if !out.Matched {
			return errNoMatch
		}
		return nil
	},
}

// matchOptions builds the call's options from the flags.
func matchOptions() (client.Options, error) {
	var opts []client.RequestOption

	if len(matchParams) > 0 {
		params := url.Values{}
		if err := eachPair("param", matchParams, params.Add); err != nil {
			return nil, err
		}
		opts = append(opts, client.WithParams(params))
	}
	if len(matchHeaders) > 0 {
		header := http.Header{}
		if err := eachPair("header", matchHeaders, header.Add); err != nil {
			return nil, err
		}
		opts = append(opts, client.WithHeaders(header))
	}
	if len(matchCookies) > 0 {
		cookies := map[string]string{}
		err := eachPair("cookie", matchCookies, func(k, v string) { cookies[k] = v })
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithCookies(cookies))
	}

	bodies := 0
	for _, set := range []bool{matchJSON != "", matchData != "", len(matchForm) > 0} {
		if set {
			bodies++
		}
	}
	if bodies > 1 {
		return nil, errors.New("--json-body, --data and --form cannot be used together")
	}
	if matchJSON != "" {
		v, err := oj.ParseString(matchJSON)
		if err != nil {
			return nil, fmt.Errorf("--json-body: %w", err)
		}
		opts = append(opts, client.WithJSON(v))
	}
	if matchData != "" {
		opts = append(opts, client.WithData(matchData))
	}
	if len(matchForm) > 0 {
		form := url.Values{}
		if err := eachPair("form", matchForm, form.Add); err != nil {
			return nil, err
		}
		opts = append(opts, client.WithData(form))
	}

	return client.BuildOptions(opts...), nil
}

// eachPair splits key=value flag values and passes them to add.
func eachPair(flag string, pairs []string, add func(key, value string)) error {
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return fmt.Errorf("--%s %q: expected key=value", flag, p)
		}
		add(k, v)
	}
	return nil
}

func init() {
	matchCmd.Flags().StringVarP(&matchMethod, "method", "X", http.MethodGet, "HTTP method of the call")
	matchCmd.Flags().StringVarP(&matchURL, "url", "u", "", "URL of the call; pass the query with --param")
	matchCmd.Flags().StringArrayVar(&matchParams, "param", nil, "Query parameter key=value (repeatable)")
	matchCmd.Flags().StringArrayVarP(&matchHeaders, "header", "H", nil, "Header key=value (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchCookies, "cookie", nil, "Cookie key=value (repeatable)")
	matchCmd.Flags().StringVar(&matchJSON, "json-body", "", "JSON request body")
	matchCmd.Flags().StringVar(&matchData, "data", "", "Raw request body")
	matchCmd.Flags().StringArrayVar(&matchForm, "form", nil, "Form field key=value sent as mapping data (repeatable)")
	_ = matchCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(matchCmd)
}
