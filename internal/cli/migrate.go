package cli

import (
	"github.com/spf13/cobra"

	"github.com/Leganyst/timeslot-allocator/internal/model"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := model.AutoMigrate(a.db); err != nil {
				return err
			}
			a.log.Info("migrations applied")
			return nil
		},
	}
}
