// Package cmd implements the command-line interface for newsdigest.
// It provides the root command and subcommands for running and
// inspecting digest crawls.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/newsdigest/cmd/crawl"
	cmdplan "github.com/jonesrussell/newsdigest/cmd/plan"
	"github.com/jonesrussell/newsdigest/cmd/schedule"
	"github.com/jonesrussell/newsdigest/cmd/serve"
	"github.com/jonesrussell/newsdigest/internal/config"
)

// version is overridable at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the newsdigest CLI.
	rootCmd = &cobra.Command{
		Use:   "newsdigest",
		Short: "A single-source news digest crawler",
		Long: `newsdigest crawls a news tag feed, follows article links, extracts
title and content with fixed selectors, summarizes each article, and
emits one record per article to the configured dataset sink.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early so --config and --debug are known before
	// configuration is read
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yml or ./config/config.yml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsdigest version %s\n", version)
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(cmdplan.Command())
	rootCmd.AddCommand(serve.Command())
	rootCmd.AddCommand(schedule.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// NEWSDIGEST_CRAWLER_MAX_ARTICLES style overrides for every key.
	viper.SetEnvPrefix("newsdigest")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	// Config file is optional; defaults and environment variables cover
	// a bare deployment.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindAppEnvVars(); err != nil {
		return err
	}
	if err := bindElasticsearchEnvVars(); err != nil {
		return err
	}

	if debug || viper.GetBool("app.debug") {
		viper.Set("app.debug", true)
		viper.Set("logger.level", "debug")
	}
	if viper.GetString("app.environment") == "development" {
		viper.Set("logger.development", true)
		viper.Set("logger.enable_color", true)
		viper.Set("logger.encoding", "console")
	}

	return nil
}

// bindAppEnvVars binds conventional unprefixed environment variables to
// config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("crawler.base_url", "CRAWL_BASE_URL"); err != nil {
		return fmt.Errorf("failed to bind CRAWL_BASE_URL: %w", err)
	}
	if err := viper.BindEnv("crawler.max_articles", "MAX_ARTICLES"); err != nil {
		return fmt.Errorf("failed to bind MAX_ARTICLES: %w", err)
	}
	if err := viper.BindEnv("summarizer.model", "SUMMARIZER_MODEL"); err != nil {
		return fmt.Errorf("failed to bind SUMMARIZER_MODEL: %w", err)
	}
	return nil
}

// bindElasticsearchEnvVars binds Elasticsearch environment variables to
// config keys.
func bindElasticsearchEnvVars() error {
	if err := viper.BindEnv("dataset.elasticsearch.addresses",
		"ELASTICSEARCH_HOSTS", "ELASTICSEARCH_ADDRESSES"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch addresses: %w", err)
	}
	if err := viper.BindEnv("dataset.elasticsearch.username", "ELASTICSEARCH_USERNAME"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch username: %w", err)
	}
	if err := viper.BindEnv("dataset.elasticsearch.password",
		"ELASTIC_PASSWORD", "ELASTICSEARCH_PASSWORD"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch password: %w", err)
	}
	if err := viper.BindEnv("dataset.elasticsearch.api_key", "ELASTICSEARCH_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch API key: %w", err)
	}
	if err := viper.BindEnv("dataset.elasticsearch.index", "ELASTICSEARCH_INDEX_NAME"); err != nil {
		return fmt.Errorf("failed to bind Elasticsearch index name: %w", err)
	}
	return nil
}
