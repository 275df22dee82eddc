package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export assessments as JSON",
		Long:  "Export assessments with their scores as a JSON array (or YAML with -f yaml). Limit to one assessment with --id.",
		RunE:  runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	all, err := s.ExportAll(cmd.Context(), idFlag)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return render(cmd, all, nil)
}
