package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltmaps/gridviz/pkg/plot"
)

// newViolationsCmd creates the violations command for rendering violation figures.
func newViolationsCmd() *cobra.Command {
	var (
		coordsPath     string
		violationsPath string
		output         string
	)

	cmd := &cobra.Command{
		Use:   "violations [case.json]",
		Short: "Render a constraint-violation figure to an interactive HTML page",
		Long: `Render a constraint-violation figure to an interactive HTML page.

The violations command highlights buses and branches whose voltage, power
balance, or flow limits are violated. Coordinates are required; the command
never invokes the automatic layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			net, err := loadCase(args[0])
			if err != nil {
				return err
			}
			coords, err := loadCoords(coordsPath)
			if err != nil {
				return err
			}
			viol, err := loadViolations(violationsPath, net)
			if err != nil {
				return err
			}

			opts := plot.DefaultOptions()
			opts.Logger = logger

			prog := newProgress(logger)
			fig, err := plot.ViolationPlot(ctx, net, coords, viol, opts)
			if err != nil {
				printError("rendering failed: %v", err)
				return err
			}
			prog.done("Rendered violation figure")

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_violations.html"
			}
			if err := writeFigureHTML(fig, output, filepath.Base(args[0])); err != nil {
				return err
			}

			printSuccess("Violation figure written")
			printFile(output)
			printStats(net.NumBuses(), net.NumBranches())
			return nil
		},
	}

	cmd.Flags().StringVar(&coordsPath, "coords", "", "YAML coordinate file (bus_id: [lat, lon])")
	cmd.Flags().StringVar(&violationsPath, "violations", "", "JSON violations file from the OPF checker")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file (default: <case>_violations.html)")
	_ = cmd.MarkFlagRequired("coords")
	_ = cmd.MarkFlagRequired("violations")

	return cmd
}
