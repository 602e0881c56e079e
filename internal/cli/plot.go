package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltmaps/gridviz/pkg/figure"
	"github.com/voltmaps/gridviz/pkg/network"
	"github.com/voltmaps/gridviz/pkg/plot"
)

// newPlotCmd creates the plot command for rendering solution figures.
func newPlotCmd() *cobra.Command {
	var (
		coordsPath    string
		solutionPath  string
		output        string
		configPath    string
		layoutCommand string
		width         int
		height        int
		seed          int
		noObjective   bool
	)

	cmd := &cobra.Command{
		Use:   "plot [case.json]",
		Short: "Render a solution figure to an interactive HTML page",
		Long: `Render a solution figure to an interactive HTML page.

The plot command reads a network case file and optionally a solved OPF
solution, lays out the network (force-directed via the external layout tool,
falling back to a circular placement when the tool is unavailable), and
writes a styled interactive figure.

Coordinates can be supplied with --coords to skip the automatic layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			net, err := loadCase(args[0])
			if err != nil {
				return err
			}

			var coords network.CoordMap
			if coordsPath != "" {
				if coords, err = loadCoords(coordsPath); err != nil {
					return err
				}
			}
			var sol *network.Solution
			if solutionPath != "" {
				if sol, err = loadSolution(solutionPath, net); err != nil {
					return err
				}
			}

			opts := plot.DefaultOptions()
			opts.Width = pickInt(cmd.Flags().Changed("width"), width, cfg.Width)
			opts.Height = pickInt(cmd.Flags().Changed("height"), height, cfg.Height)
			opts.Seed = pickInt(cmd.Flags().Changed("seed"), seed, cfg.Seed)
			opts.LayoutCommand = pickString(cmd.Flags().Changed("layout-command"), layoutCommand, cfg.LayoutCommand)
			opts.KeepObjective = !noObjective
			opts.Logger = logger

			prog := newProgress(logger)
			sp := newSpinner(ctx, "rendering figure")
			sp.Start()
			fig, err := plot.SolutionPlot(ctx, net, coords, sol, opts)
			sp.Stop()
			if err != nil {
				printError("rendering failed: %v", err)
				return err
			}
			prog.done("Rendered solution figure")

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".html"
			}
			if err := writeFigureHTML(fig, output, filepath.Base(args[0])); err != nil {
				return err
			}

			printSuccess("Solution figure written")
			printFile(output)
			printStats(net.NumBuses(), net.NumBranches())
			return nil
		},
	}

	cmd.Flags().StringVar(&coordsPath, "coords", "", "YAML coordinate file (bus_id: [lat, lon]); skips auto-layout")
	cmd.Flags().StringVar(&solutionPath, "solution", "", "JSON solution file from the OPF solver")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file (default: <case>.html)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file with defaults")
	cmd.Flags().StringVar(&layoutCommand, "layout-command", "", "force-directed layout tool (default: sfdp)")
	cmd.Flags().IntVar(&width, "width", plot.DefaultWidth, "figure width in pixels")
	cmd.Flags().IntVar(&height, "height", plot.DefaultHeight, "figure height in pixels")
	cmd.Flags().IntVar(&seed, "seed", 0, "layout seed (default: 1234)")
	cmd.Flags().BoolVar(&noObjective, "no-objective", false, "drop the objective annotation from the legend")

	return cmd
}

// writeFigureHTML writes a figure to an HTML file.
func writeFigureHTML(fig *figure.Figure, path, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return fig.WriteHTML(f, title)
}
