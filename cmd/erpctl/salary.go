package main

import (
	"errors"
	"fmt"

	"go-erp/internal/bootstrap"
	"go-erp/internal/employeesalary"

	"github.com/spf13/cobra"
)

func newSalaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Inspect and repair the salary ledger",
	}
	cmd.AddCommand(newSalaryCheckCmd(), newSalaryRevertCmd())
	return cmd
}

func newSalaryCheckCmd() *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "List employees whose current salary disagrees with the active record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			svc := employeesalary.NewService(e.db, e.repos.EmployeeSalary, e.logger)
			issues, err := svc.CheckConsistency(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "salary ledger is consistent")
				return nil
			}
			if err := printYAML(cmd.OutOrStdout(), issues); err != nil {
				return err
			}
			return fmt.Errorf("%d inconsistent employees", len(issues))
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "limit the check to one company id")
	return cmd
}

func newSalaryRevertCmd() *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "revert <employee-id>",
		Short: "Drop the active salary record and restore the previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if companyID == "" {
				return errors.New("--company is required")
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			svc := employeesalary.NewServiceWithOutbox(e.db, e.repos.EmployeeSalary, e.repos.Outbox, e.registry, e.logger)
			restored, err := svc.Revert(cmd.Context(), companyID, args[0])
			if err != nil {
				return err
			}
			bootstrap.NewZapAuditLogger(e.logger).Log(cmd.Context(), bootstrap.AuditLog{
				Action:  "SALARY_REVERTED",
				Message: "active salary record reverted from erpctl",
				Meta:    map[string]any{"company_id": companyID, "employee_id": args[0]},
			})
			return printYAML(cmd.OutOrStdout(), restored)
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "company id of the employee")
	return cmd
}
