// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citelink CLI.
// citelink finds citation templates with unlinked authors in wikitext,
// searches the wiki for each author, and writes author-link parameters
// for the articles the user picks.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citelink/internal/logging"
	"github.com/pdiddy/citelink/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool

	// logger is replaced in PersistentPreRunE; the no-op default keeps
	// helpers usable from tests.
	logger = zap.NewNop()

	// loadedSecrets holds credentials loaded from the secrets directory at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the citelink CLI.
var rootCmd = &cobra.Command{
	Use:   "citelink",
	Short: "Link citation authors to their wiki articles",
	Long: `citelink scans wikitext for citation templates ({{cite ...}} and
{{citation ...}}) whose authors have no author-link parameter, searches the
wiki for each author, and writes author-link parameters for the articles you
choose. It can also summarize single references, merge and filter users'
contributions, and serve the same operations over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citelink.yaml or ~/.config/citelink/citelink.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory holding wiki-username and wiki-password files")
	rootCmd.PersistentFlags().String("api-url", "", "MediaWiki api.php endpoint (overrides wiki.api_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("wiki.api_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	setConfigDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citelink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citelink"))
		}
	}

	viper.SetEnvPrefix("CITELINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
