package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/core/scheduler"
	"github.com/lcmartin/studioshift/pkg/core/services"
)

// ViewShiftAuditCmd creates the viewShiftAudit command
func ViewShiftAuditCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewShiftAudit <run_id> <date> <label> <start> <end>",
		Short: "Explain how one shift instance was staffed",
		Long:  "Show every candidate considered for a shift instance: rejection reasons for the ineligible, score breakdowns for the rest. Times are HH:MM.",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, label := args[0], args[2]
			date, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}
			startMin, err := scheduler.ParseHHMM(args[3])
			if err != nil {
				return fmt.Errorf("invalid start time: %w", err)
			}
			endMin, err := scheduler.ParseHHMM(args[4])
			if err != nil {
				return fmt.Errorf("invalid end time: %w", err)
			}

			app.Logger.Debug("viewShiftAudit command",
				zap.String("run_id", runID),
				zap.String("date", args[1]),
				zap.String("label", label))

			report, err := services.ViewShiftAudit(app.Ctx, app.Database, app.Logger, runID, date, label, startMin, endMin)
			if err != nil {
				return err
			}

			fmt.Printf("\n🔍 Shift Audit\n\n")
			fmt.Printf("Run ID: %s\n", report.Run.ID)
			fmt.Printf("Shift:  %s %s (%s-%s)\n\n",
				report.ShiftDate.Format("2006-01-02"),
				report.Label,
				scheduler.FormatMin(report.StartMin),
				scheduler.FormatMin(report.EndMin))

			const (
				colorReset = "\033[0m"
				colorGreen = "\033[32m"
				colorRed   = "\033[31m"
			)

			for _, c := range report.Candidates {
				switch {
				case c.Selected:
					fmt.Printf("%s✓ %s%s  score=%.3f  (%d min before this shift)\n",
						colorGreen, c.EmployeeName, colorReset, c.Score, c.MinutesSoFar)
					printBreakdown(c.ScoreBreakdown)
				case c.Eligible:
					fmt.Printf("  %s  score=%.3f  (not selected)\n", c.EmployeeName, c.Score)
					printBreakdown(c.ScoreBreakdown)
				default:
					fmt.Printf("%s✗ %s%s  rejected: %s\n",
						colorRed, c.EmployeeName, colorReset, c.RejectionReason)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func printBreakdown(breakdown map[string]float64) {
	if len(breakdown) == 0 {
		return
	}
	factors := make([]string, 0, len(breakdown))
	for name, value := range breakdown {
		factors = append(factors, fmt.Sprintf("%s=%.3f", name, value))
	}
	sort.Strings(factors)
	fmt.Printf("      %s\n", strings.Join(factors, "  "))
}
