package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"usittel_backend/internal/coverage/mapview"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type checkOutput struct {
	Verdict string       `json:"verdict"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message"`
	Map     mapview.View `json:"map"`
}

func checkCmd(load loader) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "check <address>",
		Short: `Check one address, e.g. check "Nigro 575"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := module.Service().Check(cmd.Context(), uuid.NewString(), strings.Join(args, " "))

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(checkOutput{
					Verdict: string(out.Verdict),
					Reason:  string(out.Reason),
					Message: out.Message,
					Map:     out.View,
				}); err != nil {
					return err
				}
				return out.Err()
			}

			fmt.Fprintf(w, "verdict: %s\n", out.Verdict)
			fmt.Fprintf(w, "message: %s\n", out.Message)
			if m := out.View.Marker; m != nil {
				fmt.Fprintf(w, "marker:  %s (%.6f, %.6f)\n", m.Label, m.Position.Lat, m.Position.Lon)
			}
			return out.Err()
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return c
}
