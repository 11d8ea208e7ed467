package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/svcerr"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List error kinds in precedence order",
	Args:  cobra.NoArgs,
	RunE:  runKinds,
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

func runKinds(cmd *cobra.Command, _ []string) error {
	cfg := handler().Config()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tCERTIFICATE\tHELP")
	for _, k := range svcerr.Kinds() {
		help := "-"
		if nodes, ok := svcerr.HelpNodes(k, cfg); ok {
			ids := make([]string, len(nodes))
			for i, n := range nodes {
				ids[i] = strconv.Itoa(n)
			}
			help = strings.Join(ids, ":")
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", k, k.IsCertificate(), help)
	}
	return w.Flush()
}
