package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baybook",
		Short: "Bay booking fulfillment service",
	}
	cmd.AddCommand(NewServerCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewBayCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}
