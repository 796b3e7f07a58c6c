package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/export"
	"github.com/kiranshivaraju/shopfloor/internal/joborder"
	"github.com/kiranshivaraju/shopfloor/internal/labor"
	"github.com/kiranshivaraju/shopfloor/internal/workorder"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/spf13/cobra"
)

type rankedJob struct {
	models.JobInput
	Rank int `json:"rank"`
}

func newSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Order jobs by priority tier",
		Long: `Reads {"jobs":[{"complaint":..., "job_type":...}]} and prints the jobs in
the order they would be written to a work order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in struct {
				Jobs []models.JobInput `json:"jobs"`
			}
			if err := readJSON(cmd, &in); err != nil {
				return err
			}

			for i := range in.Jobs {
				in.Jobs[i].JobType = joborder.ParseJobType(string(in.Jobs[i].JobType))
				if err := joborder.Validate(in.Jobs[i]); err != nil {
					var ae *apperr.Error
					if errors.As(err, &ae) {
						return fmt.Errorf("jobs[%d].%s %s", i, ae.Field, ae.Msg)
					}
					return err
				}
			}

			sorted := joborder.Sort(in.Jobs)
			out := make([]rankedJob, len(sorted))
			for i, j := range sorted {
				out[i] = rankedJob{JobInput: j, Rank: joborder.Rank(j.JobType)}
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringP(flagFile, "f", "-", "JSON file with jobs (- for stdin)")
	return cmd
}

func newLaborCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labor",
		Short: "Compute the structural labor estimate of an inspection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var session models.InspectionSession
			if err := readJSON(cmd, &session); err != nil {
				return err
			}

			session.VehicleType = models.ParseVehicleType(string(session.VehicleType))
			in := labor.Input{VehicleType: session.VehicleType, Sections: session.Sections}
			return printJSON(cmd, map[string]any{
				"vehicle_type": session.VehicleType,
				"axles":        labor.CountAxles(session.Sections),
				"hours":        labor.ComputeDefaultHours(in),
				"source":       labor.SourceDefault,
			})
		},
	}
	cmd.Flags().StringP(flagFile, "f", "-", "JSON file with an inspection session (- for stdin)")
	return cmd
}

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price the findings of an inspection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var session models.InspectionSession
			if err := readJSON(cmd, &session); err != nil {
				return err
			}
			q := workorder.BuildQuote(&session)

			if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				title := fmt.Sprintf("Inspection quote (%s)", session.VehicleType)
				if err := export.WriteQuote(f, title, q.Lines, time.Now().UTC()); err != nil {
					f.Close()
					return fmt.Errorf("write %s: %w", path, err)
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", path, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "quote written to %s\n", path)
			}
			return printJSON(cmd, q)
		},
	}
	cmd.Flags().StringP(flagFile, "f", "-", "JSON file with an inspection session (- for stdin)")
	cmd.Flags().String("xlsx", "", "Also write the quote as an XLSX workbook to this path")
	return cmd
}
