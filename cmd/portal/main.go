package main

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/mdrrmo/portal"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// Global flags
	driverFlag string
	verbose    bool

	logger = log.New("portal")
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "MDRRMO public website and admin panel",
	Long: `portal serves the website of a municipal disaster risk reduction and
management office: advisories, services, resources, gallery, hotlines and
the public incident report form, plus the admin panel at /admin/.

Configuration is read from the environment and from .env in the working
directory. Run "portal init" to write a starter .env and seed file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetHeader("${time_rfc3339} ${level}")
		if verbose {
			logger.SetLevel(log.DEBUG)
		} else {
			logger.SetLevel(log.INFO)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the portal version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("portal %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "backend to use: sqlite, postgres or mysql (default DB_DRIVER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		serveCmd,
		migrateCmd,
		seedCmd,
		importNewsCmd,
		createAdminCmd,
		optimizeCmd,
		initCmd,
		versionCmd,
	)
}

// loadConfig reads the environment and applies the --driver override.
func loadConfig() portal.SiteConfig {
	cfg := portal.LoadConfig()
	if driverFlag != "" {
		cfg.DatabaseDriver = driverFlag
	}
	return cfg
}

// openStore opens the backend selected by configuration.
func openStore(cfg portal.SiteConfig) (*portal.Store, error) {
	dsn, ok := cfg.Backends()[cfg.DatabaseDriver]
	if !ok {
		return nil, fmt.Errorf("backend %q is not configured", cfg.DatabaseDriver)
	}
	s, err := portal.NewStore(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}
	logger.Debugf("opened %s backend", cfg.DatabaseDriver)
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
