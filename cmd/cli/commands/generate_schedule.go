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

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule <company_id> <studio_id> <month>",
		Short: "Generate a month's shift schedule for a studio",
		Long:  "Expand the studio's shift templates over the given month (YYYY-MM) and assign employees to every instance",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, studioID := args[0], args[1]
			monthStart, monthEnd, err := parseMonth(args[2])
			if err != nil {
				return err
			}

			version, _ := cmd.Flags().GetString("version")
			if version == "" {
				version = app.Cfg.GeneratorVersion
			}
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			app.Logger.Debug("generateSchedule command",
				zap.String("studio_id", studioID),
				zap.String("month", args[2]),
				zap.String("version", version),
				zap.Bool("overwrite", overwrite))

			result, err := services.GenerateSchedule(app.Ctx, app.Database, *app.Cfg.Weights, app.Logger, services.GenerateScheduleRequest{
				CompanyID:  companyID,
				StudioID:   studioID,
				MonthStart: monthStart,
				MonthEnd:   monthEnd,
				Version:    scheduler.GeneratorVersion(version),
				Overwrite:  overwrite,
			})
			if err != nil {
				return fmt.Errorf("schedule generation failed: %w", err)
			}

			fmt.Printf("\n✓ Schedule generated!\n\n")
			fmt.Printf("Run ID:      %s\n", result.RunID)
			fmt.Printf("Generator:   %s\n", result.Version)
			fmt.Printf("Instances:   %d\n", result.InstanceCount)
			fmt.Printf("Assignments: %d\n", result.AssignmentCount)
			if result.GapCount > 0 {
				fmt.Printf("Gaps:        ⚠️  %d understaffed shifts\n", result.GapCount)
				fmt.Println()
				for _, cov := range result.Coverage {
					if cov.MissingCount == 0 {
						continue
					}
					fmt.Printf("  • %s %s (%s-%s): missing %d%s\n",
						cov.Instance.Date.Format("2006-01-02"),
						cov.Instance.Label,
						scheduler.FormatMin(cov.Instance.StartMin),
						scheduler.FormatMin(cov.Instance.EndMin),
						cov.MissingCount,
						formatRejections(cov.RejectionSummary))
				}
			} else {
				fmt.Printf("Gaps:        none\n")
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("version", "", "Generator version (v1 or v2, defaults to config)")
	cmd.Flags().Bool("overwrite", false, "Replace an existing schedule for this studio and month")

	return cmd
}

// formatRejections renders a rejection summary as "  reason=n" pairs in a
// stable sorted order.
func formatRejections(summary map[scheduler.RejectionReason]int) string {
	reasons := make([]string, 0, len(summary))
	for reason, count := range summary {
		reasons = append(reasons, fmt.Sprintf("  %s=%d", reason, count))
	}
	sort.Strings(reasons)
	return strings.Join(reasons, "")
}

// parseMonth turns a YYYY-MM argument into the first and last day of the month
func parseMonth(s string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}
