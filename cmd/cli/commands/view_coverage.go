package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/core/scheduler"
	"github.com/lcmartin/studioshift/pkg/core/services"
)

// ViewCoverageCmd creates the viewCoverage command
func ViewCoverageCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewCoverage <run_id>",
		Short: "Show staffing coverage for a schedule run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]
			app.Logger.Debug("viewCoverage command", zap.String("run_id", runID))

			report, err := services.ViewCoverage(app.Ctx, app.Database, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\n📅 Coverage Report\n\n")
			fmt.Printf("Run ID:    %s\n", report.Run.ID)
			fmt.Printf("Studio:    %s\n", report.Run.StudioID)
			fmt.Printf("Month:     %s to %s\n",
				report.Run.MonthStart.Format("2006-01-02"),
				report.Run.MonthEnd.Format("2006-01-02"))
			fmt.Printf("Generator: %s\n\n", report.Run.GeneratorVersion)

			const (
				colorReset = "\033[0m"
				colorGreen = "\033[32m"
				colorRed   = "\033[31m"
				colorBold  = "\033[1m"
			)

			fmt.Printf("%s%-12s  %-14s  %-13s  %-9s  %s%s\n",
				colorBold, "Date", "Shift", "Time", "Staffed", "Assigned", colorReset)
			fmt.Println(strings.Repeat("-", 72))

			for _, row := range report.Rows {
				staffed := fmt.Sprintf("%d/%d", row.AssignedCount, row.RequiredCount)
				if row.MissingCount > 0 {
					staffed = fmt.Sprintf("%s%s%s", colorRed, staffed, colorReset)
				} else {
					staffed = fmt.Sprintf("%s%s%s", colorGreen, staffed, colorReset)
				}

				assigned := "—"
				if len(row.Assigned) > 0 {
					names := make([]string, 0, len(row.Assigned))
					for _, a := range row.Assigned {
						names = append(names, a.Name)
					}
					assigned = strings.Join(names, ", ")
				}

				fmt.Printf("%-12s  %-14s  %s-%s   %-18s  %s\n",
					row.ShiftDate.Format("2006-01-02"),
					row.Label,
					scheduler.FormatMin(row.StartMin),
					scheduler.FormatMin(row.EndMin),
					staffed,
					assigned)

				if row.MissingCount > 0 && len(row.RejectionSummary) > 0 {
					reasons := make([]string, 0, len(row.RejectionSummary))
					for reason, count := range row.RejectionSummary {
						reasons = append(reasons, fmt.Sprintf("%s=%d", reason, count))
					}
					sort.Strings(reasons)
					fmt.Printf("              rejected: %s\n", strings.Join(reasons, ", "))
				}
			}
			fmt.Println()

			if report.GapCount > 0 {
				fmt.Printf("⚠️  %d shifts are understaffed. Use viewShiftAudit for the full candidate breakdown.\n\n", report.GapCount)
			} else {
				fmt.Println("✅ Every shift is fully staffed.")
				fmt.Println()
			}

			return nil
		},
	}
}
