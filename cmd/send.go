package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriMeans/internal/app"
	"github.com/Rorical/RoriMeans/internal/config"
	"github.com/Rorical/RoriMeans/internal/models"
)

var (
	sendClusters  int
	sendMethod    string
	sendCentroids []string
)

var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send one command and print the plot",
	Long: `Send a single command to the k-means service without starting the interactive app.
Commands: initialize, step, generate, reset, run-to-convergence.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: commandNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, ok := models.ParseCommand(args[0])
		if !ok {
			return fmt.Errorf("unknown command %q, expected one of %s", args[0], strings.Join(commandNames(), ", "))
		}

		centroids, err := parseCentroids(sendCentroids)
		if err != nil {
			return err
		}

		return runHeadless(cmd, app.HeadlessRequest{
			Command:   command,
			Clusters:  sendClusters,
			Method:    models.Method(sendMethod),
			Centroids: centroids,
		})
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Fetch and print the current plot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHeadless(cmd, app.HeadlessRequest{})
	},
}

func runHeadless(cmd *cobra.Command, req app.HeadlessRequest) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serverURL != "" {
		cfg.OverrideServerURL(serverURL)
	}
	profile := cfg.Current()
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", cfg.ActiveProfile, err)
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cmd.SilenceUsage = true
	return app.RunHeadless(cmd.Context(), profile, req, cmd.OutOrStdout(), logger)
}

func commandNames() []string {
	return lo.Map(models.Commands, func(c models.Command, _ int) string {
		return string(c)
	})
}

// parseCentroids reads "x,y" pairs.
func parseCentroids(values []string) ([]models.Point, error) {
	points := make([]models.Point, 0, len(values))
	for _, v := range values {
		xs, ys, ok := strings.Cut(v, ",")
		if !ok {
			return nil, fmt.Errorf("invalid centroid %q, expected x,y", v)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid centroid %q: %w", v, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid centroid %q: %w", v, err)
		}
		points = append(points, models.Point{X: x, Y: y})
	}
	return points, nil
}

func init() {
	sendCmd.Flags().IntVar(&sendClusters, "clusters", 0, "cluster count (defaults to the profile)")
	sendCmd.Flags().StringVar(&sendMethod, "method", "", "initialization method (defaults to the profile)")
	sendCmd.Flags().StringArrayVar(&sendCentroids, "centroid", nil, "manual centroid as x,y; repeat for each cluster")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(plotCmd)
}
