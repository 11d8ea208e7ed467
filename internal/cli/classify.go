package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/svcerr"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [value]",
	Short: "Classify a failure and print its message",
	Long: `Classify a failure value such as an error code, HTTP status or error
message. Use the --status, --code, --name and --data flags to describe a
failed HTTP request instead of a plain value.`,
	Example: `  svcerr classify DEPTH_ZERO_SELF_SIGNED_CERT
  svcerr classify --status 404
  svcerr classify --status 500 --data '{"error":{"code":"/IWFND/MED/170"}}' --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

// Flags describing a failed request, shared by classify and help.
var (
	failStatus  int
	failCode    string
	failName    string
	failMessage string
	failData    string
	jsonOutput  bool
)

func init() {
	rootCmd.AddCommand(classifyCmd)
	addFailureFlags(classifyCmd)
}

func addFailureFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&failStatus, "status", 0, "HTTP response status")
	cmd.Flags().StringVar(&failCode, "code", "", "Error code reported by the client (e.g. ECONNREFUSED)")
	cmd.Flags().StringVar(&failName, "name", "", "Error name reported by the client")
	cmd.Flags().StringVar(&failMessage, "message", "", "Error message reported by the client")
	cmd.Flags().StringVar(&failData, "data", "", "Response body")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
}

// failureFrom builds the failure described by args and flags.
func failureFrom(args []string) (error, error) {
	httpErr := &svcerr.HTTPError{
		Code:    failCode,
		Name:    failName,
		Message: failMessage,
	}
	if failStatus != 0 || failData != "" {
		httpErr.Response = &svcerr.Response{Status: failStatus}
		if failData != "" {
			httpErr.Response.Data = failData
		}
	}

	hasRequest := httpErr.Response != nil || failCode != "" || failName != "" || failMessage != ""
	switch {
	case hasRequest && len(args) > 0:
		return nil, errors.New("a value argument cannot be combined with request flags")
	case hasRequest:
		return httpErr, nil
	case len(args) == 1 && strings.TrimSpace(args[0]) != "":
		return errors.New(args[0]), nil
	default:
		return nil, errors.New("nothing to classify: pass a value or request flags")
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	failure, err := failureFrom(args)
	if err != nil {
		return err
	}

	wrapped := handler().Wrap(failure)
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), svcerr.ToJSON(wrapped))
	}

	var ce *svcerr.ClassifiedError
	if !errors.As(wrapped, &ce) {
		return fmt.Errorf("failed to classify %q", failure)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", ce.Kind(), ce.Message())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
