package cli

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/voltmaps/gridviz/pkg/figure"
	"github.com/voltmaps/gridviz/pkg/network"
	"github.com/voltmaps/gridviz/pkg/plot"
)

// newServeCmd creates the serve command for hosting a figure over HTTP.
func newServeCmd() *cobra.Command {
	var (
		addr           string
		coordsPath     string
		solutionPath   string
		violationsPath string
		configPath     string
		layoutCommand  string
		width          int
		height         int
		seed           int
		noObjective    bool
	)

	cmd := &cobra.Command{
		Use:   "serve [case.json]",
		Short: "Serve an interactive figure over HTTP",
		Long: `Serve an interactive figure over HTTP.

The serve command builds the figure once at startup and hosts it on a small
HTTP server: the page itself at / and the raw figure JSON at /figure.json.
When --violations is given a violation figure is served instead of a
solution figure (coordinates are then required).`,
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

			opts := plot.DefaultOptions()
			opts.Width = pickInt(cmd.Flags().Changed("width"), width, cfg.Width)
			opts.Height = pickInt(cmd.Flags().Changed("height"), height, cfg.Height)
			opts.Seed = pickInt(cmd.Flags().Changed("seed"), seed, cfg.Seed)
			opts.LayoutCommand = pickString(cmd.Flags().Changed("layout-command"), layoutCommand, cfg.LayoutCommand)
			opts.KeepObjective = !noObjective
			opts.Logger = logger

			var fig *figure.Figure
			if violationsPath != "" {
				viol, err := loadViolations(violationsPath, net)
				if err != nil {
					return err
				}
				fig, err = plot.ViolationPlot(ctx, net, coords, viol, opts)
				if err != nil {
					return err
				}
			} else {
				var sol *network.Solution
				if solutionPath != "" {
					if sol, err = loadSolution(solutionPath, net); err != nil {
						return err
					}
				}
				fig, err = plot.SolutionPlot(ctx, net, coords, sol, opts)
				if err != nil {
					return err
				}
			}

			title := filepath.Base(args[0])
			srv := &http.Server{
				Addr:              addr,
				Handler:           newFigureRouter(fig, title),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving figure", "addr", addr)
			printSuccess("Serving %s", title)
			printLink("http://" + addr + "/")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&coordsPath, "coords", "", "YAML coordinate file (bus_id: [lat, lon]); skips auto-layout")
	cmd.Flags().StringVar(&solutionPath, "solution", "", "JSON solution file from the OPF solver")
	cmd.Flags().StringVar(&violationsPath, "violations", "", "JSON violations file; serves a violation figure")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file with defaults")
	cmd.Flags().StringVar(&layoutCommand, "layout-command", "", "force-directed layout tool (default: sfdp)")
	cmd.Flags().IntVar(&width, "width", plot.DefaultWidth, "figure width in pixels")
	cmd.Flags().IntVar(&height, "height", plot.DefaultHeight, "figure height in pixels")
	cmd.Flags().IntVar(&seed, "seed", 0, "layout seed (default: 1234)")
	cmd.Flags().BoolVar(&noObjective, "no-objective", false, "drop the objective annotation from the legend")

	return cmd
}

// newFigureRouter builds the HTTP routes for serving a single figure.
func newFigureRouter(fig *figure.Figure, title string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = fig.WriteHTML(w, title)
	})
	r.Get("/figure.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		data, err := fig.MarshalJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(data)
	})
	return r
}
