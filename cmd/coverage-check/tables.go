package main

import (
	"fmt"
	"text/tabwriter"

	"usittel_backend/internal/coverage/domain"

	"github.com/spf13/cobra"
)

func tablesCmd(load loader) *cobra.Command {
	var listStreets bool

	c := &cobra.Command{
		Use:   "tables",
		Short: "Compile the coverage tables and print their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			tables, err := module.Service().Tables()
			if err != nil {
				return err
			}

			named := []struct {
				name  string
				table *domain.CompiledTable
			}{
				{"current", tables.Current},
				{"planned", tables.Planned},
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tSTREETS\tRANGES\tTOKENS\tDROPPED")
			for _, n := range named {
				s := n.table.Stats()
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", n.name, s.Streets, s.Ranges, s.Tokens, s.Dropped)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !listStreets {
				return nil
			}
			for _, n := range named {
				fmt.Fprintf(cmd.OutOrStdout(), "\n[%s]\n", n.name)
				for _, s := range n.table.Streets() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:", s.Street)
					for _, r := range s.Ranges {
						fmt.Fprintf(cmd.OutOrStdout(), " %d-%d", r.From, r.To)
					}
					fmt.Fprintln(cmd.OutOrStdout())
				}
			}
			return nil
		},
	}

	c.Flags().BoolVar(&listStreets, "streets", false, "also list every street with its merged ranges")
	return c
}
