package main

import (
	"go-erp/internal/evaluation"

	"github.com/spf13/cobra"
)

func newEvaluationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluation",
		Short: "Evaluation maintenance",
	}

	var companyID string
	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the status of every non-cancelled evaluation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			svc := evaluation.NewService(e.db, e.repos.Evaluation, e.registry, e.logger)
			summary, err := svc.RefreshAll(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), summary)
		},
	}
	refresh.Flags().StringVar(&companyID, "company", "", "limit the refresh to one company id")

	cmd.AddCommand(refresh)
	return cmd
}
