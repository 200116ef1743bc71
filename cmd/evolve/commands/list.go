package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triet4p/itapia-sub001/pkg/rules"
	"github.com/triet4p/itapia-sub001/pkg/store"
)

// NewListCommand builds the `evolve list` command: summarize stored rules.
func NewListCommand() *cobra.Command {
	var (
		dbPath string
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			var stored []*rules.Rule
			if status != "" {
				stored, err = db.ListByStatus(cmd.Context(), rules.RuleStatus(status))
			} else {
				stored, err = db.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			if len(stored) == 0 {
				fmt.Println("no rules stored")
				return nil
			}
			for _, rule := range stored {
				fmt.Printf("%s  %-10s  %-18s  %s\n",
					rule.RuleID, rule.Status, rule.Purpose(), rule.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "rules.db", "path to the rule store database")
	cmd.Flags().StringVar(&status, "status", "", "filter by lifecycle status (ready, evolving, deprecated)")
	return cmd
}
