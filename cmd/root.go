package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriMeans/internal/app"
)

var (
	serverURL string
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "rorimeans",
	Short: "Interactive k-means in the terminal",
	Long:  `RoriMeans drives a remote k-means service and draws each step of the algorithm as a terminal scatter plot.`,
	Run: func(cmd *cobra.Command, args []string) {
		runApplication()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func runApplication() {
	application, err := app.NewApplication(app.Options{ServerURL: serverURL, Debug: debug})
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "k-means service URL (overrides the active profile)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}
