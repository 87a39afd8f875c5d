package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/pkg/core/scheduler"
	"github.com/lcmartin/studioshift/pkg/core/services"
)

// AddShiftCmd creates the addShift command
func AddShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addShift <run_id> <employee_id> <date> <label> <start> <end>",
		Short: "Manually add an employee to a shift in an existing run",
		Long:  "Insert a manual assignment into a generated schedule. The same hard constraints the generator enforces apply: no double booking, no blocked time, rest and consecutive-day limits hold.",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, employeeID, label := args[0], args[1], args[3]
			date, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}
			startMin, err := scheduler.ParseHHMM(args[4])
			if err != nil {
				return fmt.Errorf("invalid start time: %w", err)
			}
			endMin, err := scheduler.ParseHHMM(args[5])
			if err != nil {
				return fmt.Errorf("invalid end time: %w", err)
			}

			app.Logger.Debug("addShift command",
				zap.String("run_id", runID),
				zap.String("employee_id", employeeID))

			shift, err := services.AddShift(app.Ctx, app.Database, app.Logger, services.AddShiftRequest{
				RunID:      runID,
				EmployeeID: employeeID,
				ShiftDate:  date,
				Label:      label,
				StartMin:   startMin,
				EndMin:     endMin,
			})
			if err != nil {
				var ineligible *services.IneligibleError
				if errors.As(err, &ineligible) {
					fmt.Printf("\n✗ Cannot add shift: %s\n\n", ineligible.Reason)
					return err
				}
				return err
			}

			fmt.Printf("\n✓ Shift added!\n\n")
			fmt.Printf("Shift ID: %s\n", shift.ID)
			fmt.Printf("Date:     %s %s (%s-%s)\n\n",
				shift.ShiftDate.Format("2006-01-02"),
				shift.Label,
				scheduler.FormatMin(shift.StartMin),
				scheduler.FormatMin(shift.EndMin))

			return nil
		},
	}
}

// ReassignShiftCmd creates the reassignShift command
func ReassignShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reassignShift <shift_id> <employee_id>",
		Short: "Move a scheduled shift to a different employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID, employeeID := args[0], args[1]

			app.Logger.Debug("reassignShift command",
				zap.String("shift_id", shiftID),
				zap.String("employee_id", employeeID))

			if err := services.ReassignShift(app.Ctx, app.Database, app.Logger, shiftID, employeeID); err != nil {
				var ineligible *services.IneligibleError
				if errors.As(err, &ineligible) {
					fmt.Printf("\n✗ Cannot reassign shift: %s\n\n", ineligible.Reason)
					return err
				}
				return err
			}

			fmt.Printf("\n✓ Shift %s reassigned to %s\n\n", shiftID, employeeID)
			return nil
		},
	}
}

// RemoveShiftCmd creates the removeShift command
func RemoveShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeShift <shift_id>",
		Short: "Remove a scheduled shift from a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]

			app.Logger.Debug("removeShift command", zap.String("shift_id", shiftID))

			if err := services.RemoveShift(app.Ctx, app.Database, app.Logger, shiftID); err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift %s removed. Check viewCoverage for the resulting gap.\n\n", shiftID)
			return nil
		},
	}
}
