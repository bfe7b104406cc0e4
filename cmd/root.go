package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rajangupta9/taskmanager/config"
	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/store"
)

var rootCmd = &cobra.Command{
	Use:   "taskapi",
	Short: "Authenticated task management REST API",
	Long: `taskapi serves a JSON API where users register, log in and manage
their own tasks: create, list, update, delete, filter by status, sort by
due date and pick the next task to work on.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/taskapi/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	config.SetDefaults(viper.GetViper())

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// bootstrap loads the configuration and builds the logger every command uses.
func bootstrap() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config file", "path", used)
	}
	return cfg, logger, nil
}

// openStore connects to the configured database and applies its schema.
func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (store.Store, error) {
	st, err := config.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	defer cancel()
	if err := st.Migrate(migrateCtx); err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return st, nil
}
