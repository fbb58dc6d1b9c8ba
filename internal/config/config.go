package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tubegrab/internal/dirs"
)

// DefaultServerURL is used when no server address is configured anywhere.
const DefaultServerURL = "http://localhost:8000"

// Init wires Viper with config paths, env, and flag bindings.
// It is non-fatal: any errors are returned for optional handling by caller.
func Init(root *cobra.Command) error {
	// Ensure base directories exist
	_ = dirs.EnsureAll()

	// Setup config search path
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		_ = dirs.Ensure(cfgDir)
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: TUBEGRAB_*
	viper.SetEnvPrefix("TUBEGRAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server", DefaultServerURL)

	// Bind root persistent flags to Viper keys
	_ = viper.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("out_dir", root.PersistentFlags().Lookup("out-dir"))
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("jobs", root.PersistentFlags().Lookup("jobs"))
	_ = viper.BindPFlag("poll_interval", root.PersistentFlags().Lookup("poll-interval"))

	// Read config file if present (ignore not found)
	_ = viper.ReadInConfig()

	return nil
}

// Server returns the configured service base address.
func Server() string {
	if v := viper.GetString("server"); v != "" {
		return v
	}
	return DefaultServerURL
}
