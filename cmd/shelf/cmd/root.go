package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/shelf"
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Versioned path-keyed store CLI",
	Long:  "CLI for reading and writing versioned, path-keyed data backed by a local object store.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/shelf/config.yaml)")
	rootCmd.PersistentFlags().String("repo", "", "object store directory (default: ~/.local/share/shelf)")
	rootCmd.PersistentFlags().String("branch", "master", "branch to read and write")

	viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))
	viper.BindPFlag("branch", rootCmd.PersistentFlags().Lookup("branch"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SHELF")
	viper.AutomaticEnv()
	viper.SetDefault("repo", defaultRepoDir())
	viper.SetDefault("branch", "master")
	viper.SetDefault("compression_level", 0)

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shelf")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "shelf")
	}
	return ".shelf"
}

func defaultRepoDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "shelf")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "shelf")
	}
	return ".shelf"
}

// openShelf opens the configured branch on the configured object
// store. The returned store is the shelf's backend, handed back for
// commands that inspect history directly.
func openShelf(cmd *cobra.Command, opts ...shelf.Option) (*shelf.Shelf, shelf.ObjectStore, error) {
	store, err := shelf.NewLocalStore(viper.GetString("repo"), shelf.LocalOptions{
		CompressionLevel: viper.GetInt("compression_level"),
	})
	if err != nil {
		return nil, nil, err
	}

	s, err := shelf.Open(cmd.Context(), store, viper.GetString("branch"), opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, store, nil
}
