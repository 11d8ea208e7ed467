package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/svcerr"
)

var explainCmd = &cobra.Command{
	Use:   "explain [value]",
	Short: "Resolve guided help for a failure",
	Long: `Classify a failure and resolve the guided help for it. With
--destination the kind is first refined using the destination settings.`,
	Example: `  svcerr explain SELF_SIGNED_CERT_IN_CHAIN
  svcerr explain --status 503 --destination ERP --on-premise
  svcerr explain --status 401 --destination BTP --auth BasicAuthentication --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

var (
	destName      string
	destOnPremise bool
	destNoDiscov  bool
	destAuth      string
)

func init() {
	rootCmd.AddCommand(explainCmd)
	addFailureFlags(explainCmd)

	explainCmd.Flags().StringVar(&destName, "destination", "", "Destination the request went through")
	explainCmd.Flags().BoolVar(&destOnPremise, "on-premise", false, "The destination reaches an on-premise system")
	explainCmd.Flags().BoolVar(&destNoDiscov, "no-discovery", false, "The destination lacks dynamic service discovery")
	explainCmd.Flags().StringVar(&destAuth, "auth", svcerr.NoAuthentication, "Destination authentication mode")
}

func destination() *svcerr.Destination {
	if destName == "" {
		return nil
	}
	return &svcerr.Destination{
		Name:                     destName,
		SupportsDynamicDiscovery: !destNoDiscov,
		OnPremise:                destOnPremise,
		Authentication:           destAuth,
	}
}

func runExplain(cmd *cobra.Command, args []string) error {
	failure, err := failureFrom(args)
	if err != nil {
		return err
	}

	f := svcerr.Raw(failure)
	result, _ := handler().HelpFor(&f, true, destination())

	out := cmd.OutOrStdout()
	if jsonOutput {
		if result.IsLink() {
			return writeJSON(out, result.Link)
		}
		return writeJSON(out, map[string]string{"message": result.Text})
	}

	fmt.Fprintln(out, result.String())
	if result.IsLink() {
		fmt.Fprintf(out, "%s %s\n", result.Link.LinkText, result.Link.URL)
	}
	return nil
}
