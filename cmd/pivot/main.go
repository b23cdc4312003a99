package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/displayops/pivot/internal/config"
	"github.com/displayops/pivot/internal/diag"
	"github.com/displayops/pivot/internal/display"
	"github.com/displayops/pivot/internal/logging"
	"github.com/displayops/pivot/internal/profile"
)

var (
	version = "0.1.0"

	cfgFile    string
	displayArg string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Toggle display orientation",
	Long: `pivot toggles the primary display between landscape and portrait by
rewriting the operating system's display configuration. Running pivot with no
subcommand performs the toggle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle()
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle between landscape and portrait",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle()
	},
}

var setCmd = &cobra.Command{
	Use:   "set <0|90|180|270>",
	Short: "Rotate the display to an explicit angle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reject bad selectors before anything touches the OS.
		orientation, err := display.ParseOrientation(args[0])
		if err != nil {
			return err
		}

		_, ctrl, target, err := setup()
		if err != nil {
			return err
		}

		ctrl.SetOrientation(target, orientation)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current orientation and resolution",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ctrl, target, err := setup()
		if err != nil {
			return err
		}

		mode, ok := ctrl.Status(target)
		if !ok {
			fmt.Println("Display settings unavailable; assuming landscape (0°).")
			return nil
		}

		fmt.Printf("Display:     %s\n", displayLabel(mode.Device))
		fmt.Printf("Orientation: %s\n", mode.Orientation)
		fmt.Printf("Resolution:  %dx%d\n", mode.Width, mode.Height)
		if mode.RefreshHz > 0 {
			fmt.Printf("Refresh:     %d Hz\n", mode.RefreshHz)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached displays",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ctrl, _, err := setup()
		if err != nil {
			return err
		}

		displays, err := ctrl.Displays()
		if err != nil {
			return err
		}

		for _, d := range displays {
			marker := " "
			if d.Primary {
				marker = "*"
			}
			if d.Description != "" {
				fmt.Printf("%s %s  %dx%d  %s\n", marker, d.Name, d.Width, d.Height, d.Description)
			} else {
				fmt.Printf("%s %s  %dx%d\n", marker, d.Name, d.Width, d.Height)
			}
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Apply or list named orientation presets",
}

var profileApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply a named orientation preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ctrl, target, err := setup()
		if err != nil {
			return err
		}

		profiles, err := profile.Load(cfg.ProfilesPath)
		if err != nil {
			return err
		}

		orientation, override, err := profile.Resolve(profiles, args[0])
		if err != nil {
			return err
		}
		if override != "" {
			target = override
		}

		ctrl.SetOrientation(target, orientation)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List named orientation presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		profiles, err := profile.Load(cfg.ProfilesPath)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles defined.")
			return nil
		}

		for _, name := range profile.Names(profiles) {
			p := profiles[name]
			if p.Display != "" {
				fmt.Printf("%s: %s° on %s\n", name, p.Orientation, p.Display)
			} else {
				fmt.Printf("%s: %s°\n", name, p.Orientation)
			}
		}
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report the host environment and display backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}

		report := diag.Collect(display.NewProvider())

		fmt.Printf("OS:       %s\n", report.OS)
		if report.Platform != "" {
			fmt.Printf("Platform: %s %s\n", report.Platform, report.PlatformVersion)
		}
		if report.Kernel != "" {
			fmt.Printf("Kernel:   %s\n", report.Kernel)
		}
		fmt.Printf("Backend:  %s\n", report.Backend)
		if report.SessionHint != "" {
			fmt.Printf("Session:  %s\n", report.SessionHint)
		}
		if report.BackendReady {
			fmt.Println("Backend query: ok")
		} else {
			fmt.Println("Backend query: failed")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pivot v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is pivot.yaml in the config dir)")
	rootCmd.PersistentFlags().StringVar(&displayArg, "display", "", "display target (default is the primary display)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	profileCmd.AddCommand(profileApplyCmd)
	profileCmd.AddCommand(profileListCmd)

	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runToggle() error {
	_, ctrl, target, err := setup()
	if err != nil {
		return err
	}

	result := ctrl.Toggle(target)
	fmt.Printf("Current orientation: %s\n", result.Before)
	if !result.Changed {
		fmt.Println("No changes made.")
	}
	return nil
}

// loadConfig loads the config file and initializes logging, with CLI flags
// taking precedence over file values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	var out io.Writer
	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			return nil, err
		}
		out = logging.TeeWriter(os.Stderr, rw)
	}
	logging.Init(cfg.LogFormat, cfg.LogLevel, out)

	return cfg, nil
}

func setup() (*config.Config, *display.Controller, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}

	target := cfg.Display
	if displayArg != "" {
		target = displayArg
	}

	return cfg, display.NewController(display.NewProvider()), target, nil
}

func displayLabel(device string) string {
	if device == "" {
		return "primary"
	}
	return device
}
