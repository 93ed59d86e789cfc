package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vkot/vkotcore/internal/session"
)

// newSessionCmd builds the "session" command group; "ls" is its only
// subcommand today.
func newSessionCmd(controlDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect tracked vkotcore runs",
	}
	cmd.AddCommand(newSessionLsCmd(controlDir))
	return cmd
}

func newSessionLsCmd(controlDir *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tracked runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := session.NewManager(*controlDir)
			if err != nil {
				return err
			}
			records, err := mgr.List()
			if err != nil {
				return fmt.Errorf("session ls: %w", err)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(w).Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(w, "no tracked runs")
				return nil
			}
			fmt.Fprintf(w, "%-36s  %-8s  %-7s  %-24s  %s\n", "ID", "PID", "STATUS", "STARTED", "COMMAND")
			for _, rec := range records {
				fmt.Fprintf(w, "%-36s  %-8d  %-7s  %-24s  %s\n",
					rec.ID, rec.PID, rec.Status,
					rec.StartedAt.Format("2006-01-02 15:04:05"),
					strings.Join(rec.Command, " "))
			}
			return nil
		},
	}

	var flags *pflag.FlagSet = cmd.Flags()
	flags.BoolVar(&asJSON, "json", false, "print records as a JSON array instead of a table")
	return cmd
}
