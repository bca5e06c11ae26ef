package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/internal/scraper"
	"github.com/truthlens/truthlens/internal/verify"
)

// analysisTextLimit bounds how much page content is handed to verification.
// It is independent of the (larger) storage bound on cached snippets.
const analysisTextLimit = 5000

// fetchOutput is the caller-facing result of a fetch-and-verify run.
type fetchOutput struct {
	scraper.PageResult
	Verification verify.Result `json:"verification"`
}

func newFetchCmd() *cobra.Command {
	var (
		ignoreRobots bool
		noEscalate   bool
		skipVerify   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Fetch a page through the polite pipeline and verify its credibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := args[0]
			parsed, err := url.Parse(rawURL)
			if err != nil || parsed.Scheme == "" || parsed.Host == "" {
				return fmt.Errorf("invalid URL format: %q", rawURL)
			}

			svc, err := newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			page, err := svc.scraper.Scrape(cmd.Context(), scraper.Request{
				URL:          rawURL,
				IgnoreRobots: ignoreRobots,
				NoEscalate:   noEscalate,
			})
			if err != nil {
				return err
			}

			out := fetchOutput{PageResult: page}
			if !skipVerify {
				out.Verification = svc.verifier.VerifyContent(
					cmd.Context(), page.URL, page.Title, truncateRunes(page.Content, analysisTextLimit))
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "skip the robots.txt check for the first attempt")
	cmd.Flags().BoolVar(&noEscalate, "no-escalate", false, "surface a robots.txt denial instead of retrying with robots relaxed")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "fetch and extract only, without credibility verification")
	return cmd
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
