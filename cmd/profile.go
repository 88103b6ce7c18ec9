package cmd

import (
	"fmt"
	"log"
	"slices"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriMeans/internal/config"
	"github.com/Rorical/RoriMeans/internal/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage service profiles",
	Long:  `Manage profiles for different k-means services and default run settings.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("Active Profile: %s\n\n", color.GreenString(cfg.ActiveProfile))
		fmt.Println("Available Profiles:")
		for _, name := range sortedProfileNames(cfg) {
			profile := cfg.Profiles[name]
			if name == cfg.ActiveProfile {
				fmt.Printf("  %s %s\n", color.GreenString(name), color.New(color.Faint).Sprint("(active)"))
			} else {
				fmt.Printf("  %s\n", name)
			}
			fmt.Printf("    Server: %s\n", profile.ServerURL)
			fmt.Printf("    Clusters: %d  Method: %s\n", profile.Clusters, profile.Method)
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName := args[0]
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		fmt.Printf("Profile: %s\n", color.CyanString(profileName))
		fmt.Printf("Server URL: %s\n", profile.ServerURL)
		fmt.Printf("Clusters: %d\n", profile.Clusters)
		fmt.Printf("Method: %s\n", profile.Method)
		fmt.Printf("Plot Size: %dx%d\n", profile.PlotWidth, profile.PlotHeight)
		fmt.Printf("Request Timeout: %s\n", profile.RequestTimeout.Std())
		if err := profile.Validate(); err != nil {
			fmt.Println(color.RedString("Invalid: %v", err))
		}
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.DefaultProfile())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := profileArgOrSelect(cfg, args, "Select profile to edit", "")
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		profile, err = promptProfile(profile)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := profileArgOrSelect(cfg, args, "Select profile to delete", "")
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		delete(cfg.Profiles, profileName)

		if cfg.ActiveProfile == profileName {
			if len(cfg.Profiles) == 0 {
				// Last profile gone, fall back to a fresh default
				cfg.Profiles["default"] = config.DefaultProfile()
			}
			cfg.ActiveProfile = sortedProfileNames(cfg)[0]
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := profileArgOrSelect(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		cfg.ActiveProfile = profileName
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Switched to profile '%s'\n", color.GreenString(profileName))
	},
}

func sortedProfileNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// profileArgOrSelect returns the profile named on the command line, or lets
// the user pick one. exclude is left out of the choices.
func profileArgOrSelect(cfg *config.Config, args []string, label, exclude string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	names := slices.DeleteFunc(sortedProfileNames(cfg), func(n string) bool { return n == exclude })
	if len(names) == 0 {
		return "", fmt.Errorf("no profiles available")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	return name, err
}

// promptProfile asks for every profile field, offering current values as defaults.
func promptProfile(current config.Profile) (config.Profile, error) {
	profile := current

	urlPrompt := promptui.Prompt{
		Label:   "Server URL",
		Default: current.ServerURL,
		Validate: func(s string) error {
			p := current
			p.ServerURL = s
			return p.Validate()
		},
	}
	serverURL, err := urlPrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.ServerURL = serverURL

	profile.Clusters, err = promptInt("Clusters", current.Clusters)
	if err != nil {
		return profile, err
	}

	methodPrompt := promptui.Select{
		Label:     "Initialization method",
		Items:     models.Methods,
		CursorPos: max(slices.Index(models.Methods, current.Method), 0),
	}
	idx, _, err := methodPrompt.Run()
	if err != nil {
		return profile, err
	}
	profile.Method = models.Methods[idx]

	profile.PlotWidth, err = promptInt("Plot width", current.PlotWidth)
	if err != nil {
		return profile, err
	}
	profile.PlotHeight, err = promptInt("Plot height", current.PlotHeight)
	if err != nil {
		return profile, err
	}

	timeoutPrompt := promptui.Prompt{
		Label:   "Request timeout",
		Default: current.RequestTimeout.Std().String(),
		Validate: func(s string) error {
			_, err := time.ParseDuration(s)
			return err
		},
	}
	timeout, err := timeoutPrompt.Run()
	if err != nil {
		return profile, err
	}
	d, _ := time.ParseDuration(timeout)
	profile.RequestTimeout = config.Duration(d)

	return profile, nil
}

func promptInt(label string, current int) (int, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(current),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			if n < 1 {
				return fmt.Errorf("must be at least 1")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
