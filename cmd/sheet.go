package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cnp-robotics/scout-cli/internal/enrich"
	"github.com/cnp-robotics/scout-cli/internal/fetcher"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
)

var (
	sheetFile      string
	sheetSheetName string
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Import scouting form responses",
}

var sheetImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import form rows from the configured spreadsheet or a local export",
	Long: `Merges every response row into the roster, one observation per row.
With --file, reads a local .xlsx export instead of calling the Sheets API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var report enrich.ImportReport
		if sheetFile != "" {
			rows, err := fetcher.ReadXLSX(sheetFile, fetcher.XLSXOptions{SheetName: sheetSheetName})
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return resilience.NewValidationError("file", "export has no rows")
			}
			// ImportRows never touches the API client.
			imp := enrich.NewSheetImport(nil, env.Roster, "", "", enrich.ColumnMap(cfg.Sheet.Columns))
			report, err = imp.ImportRows(ctx, rows[0], rows[1:], 0)
			if err != nil {
				return err
			}
		} else {
			imp, err := sheetImport(env)
			if err != nil {
				return err
			}
			report, err = imp.Import(ctx, 0)
			if err != nil {
				return err
			}
		}

		fmt.Printf("imported %d of %d rows (%d skipped)\n", report.Imported, report.Rows, report.Skipped)
		return nil
	},
}

var sheetWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the spreadsheet and merge new responses as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		imp, err := sheetImport(env)
		if err != nil {
			return err
		}

		interval := time.Duration(cfg.Sheet.PollIntervalSecs) * time.Second
		poller := enrich.NewPoller(imp, interval, func(state enrich.PollState, newRows int) {
			if newRows > 0 {
				fmt.Printf("%d new form submissions\n", newRows)
				return
			}
			zap.L().Info("poll state", zap.String("state", string(state)))
		})

		fmt.Printf("watching sheet every %s (ctrl-c to stop)\n", interval)
		return poller.Run(ctx)
	},
}

func init() {
	sheetImportCmd.Flags().StringVar(&sheetFile, "file", "", "local .xlsx export to import instead of the API")
	sheetImportCmd.Flags().StringVar(&sheetSheetName, "sheet-name", "", "worksheet name inside the export (default first sheet)")
	sheetCmd.AddCommand(sheetImportCmd)
	sheetCmd.AddCommand(sheetWatchCmd)
	rootCmd.AddCommand(sheetCmd)
}
