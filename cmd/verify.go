package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/internal/verify"
)

// minVerifyTextLen is the boundary below which input is rejected before it
// reaches the verification engine.
const minVerifyTextLen = 10

// verifyOutput mirrors the fetch output shape for direct text analysis.
type verifyOutput struct {
	URL             string        `json:"url"`
	Title           string        `json:"title"`
	MetaDescription string        `json:"metaDescription"`
	Content         string        `json:"content"`
	Verification    verify.Result `json:"verification"`
}

func newVerifyCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "verify [TEXT]",
		Short: "Verify the credibility of raw text",
		Long: `Verify scores a paragraph of text directly, without fetching anything.
Text is read from the argument, from --file, or from stdin when neither is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readVerifyInput(cmd, args, filePath)
			if err != nil {
				return err
			}
			if utf8.RuneCountInString(strings.TrimSpace(text)) < minVerifyTextLen {
				return fmt.Errorf("please provide a paragraph to verify (at least %d characters)", minVerifyTextLen)
			}

			svc, err := newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			out := verifyOutput{
				URL:             "N/A (Direct Input)",
				Title:           "Direct Text Analysis",
				MetaDescription: "Hallucination check on provided text.",
				Content:         text,
				Verification:    svc.verifier.VerifyText(cmd.Context(), text),
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "read the text to verify from a file")
	return cmd
}

func readVerifyInput(cmd *cobra.Command, args []string, filePath string) (string, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
