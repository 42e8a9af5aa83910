package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/internal/config"
	"github.com/xkilldash9x/findingsd/internal/observability"
)

var (
	cfgFile string
	cfg     config.Config
)

// rootCmd is the base command; every subcommand inherits its config and
// logger setup.
var rootCmd = &cobra.Command{
	Use:     "findingsd",
	Short:   "findingsd normalizes security-alert exports and reconciles them into a findings store.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}
		if err := viper.Unmarshal(&cfg); err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "findingsd"})
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Info("Starting findingsd", zap.String("version", Version))
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initializeConfig reads the config file and FINDINGSD_ environment overrides.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())

	viper.SetEnvPrefix("FINDINGSD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars carry it.
	}
	return nil
}
