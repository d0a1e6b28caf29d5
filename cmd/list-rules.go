package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shieldscan/shieldscan/internal/rules/detectors"
)

// newListRulesCmd creates the `list-rules` command.
func newListRulesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list-rules",
		Short: "List all available detection rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := detectors.All()
			metas := make([]interface{}, 0, len(all))
			for _, d := range all {
				metas = append(metas, d.Metadata())
			}

			if format == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(metas)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSEVERITY\tCWE\tCATEGORY")
			for _, d := range all {
				m := d.Metadata()
				cwe := m.CWE
				if cwe == "" {
					cwe = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Title, m.Severity, cwe, m.Category)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")
	return cmd
}
