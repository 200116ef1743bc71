package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triet4p/itapia-sub001/pkg/store"
)

// NewShowCommand builds the `evolve show` command: print one rule's
// structural form.
func NewShowCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show <rule-id>",
		Short: "Print a stored rule's structural form as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			rule, err := db.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(rule.ToEntity(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "rules.db", "path to the rule store database")
	return cmd
}
