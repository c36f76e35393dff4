package cmd

import (
	"log"

	"github.com/octosourcer/octosourcer/internal/github"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "octosourcer"
)

// Config is the application configuration unmarshalled from the YAML config
// file.
type Config struct {
	Search        *github.SearchParams `mapstructure:"search"`
	JobFile       string               `mapstructure:"job-file"`
	TokenFile     string               `mapstructure:"token-file"`
	UserAgent     string               `mapstructure:"user-agent"`
	MaxCandidates int                  `mapstructure:"max-candidates"`
	Locations     *LocationsConfig     `mapstructure:"locations"`
	Skills        *SkillsConfig        `mapstructure:"skills"`
	Ranking       *RankingConfig       `mapstructure:"ranking"`
	Outreach      *OutreachConfig      `mapstructure:"outreach"`
	AI            *AIConfig            `mapstructure:"ai"`
}

// LocationsConfig points at an optional geo data override file.
type LocationsConfig struct {
	GeoFile string `mapstructure:"geo-file"`
}

// SkillsConfig tunes skill detection.
type SkillsConfig struct {
	AliasFile     string  `mapstructure:"alias-file"`
	MaxRepos      int     `mapstructure:"max-repos"`
	MinConfidence float64 `mapstructure:"min-confidence"`
}

// RankingConfig holds the composite weights and scoring concurrency.
type RankingConfig struct {
	SkillsWeight     float64 `mapstructure:"skills-weight"`
	ExperienceWeight float64 `mapstructure:"experience-weight"`
	ActivityWeight   float64 `mapstructure:"activity-weight"`
	DomainWeight     float64 `mapstructure:"domain-weight"`
	Concurrency      int     `mapstructure:"concurrency"`
	MinScore         float64 `mapstructure:"min-score"`
}

// OutreachConfig controls outreach message generation.
type OutreachConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	TopN            int    `mapstructure:"top-n"`
	FallbackMessage string `mapstructure:"fallback-message"`
}

// AIConfig stores AI provider configuration.
type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig stores Gemini provider configuration.
type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "octosourcer searches GitHub for developers matching a job description and ranks them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "GITHUB_TOKEN_FILE"); err != nil {
		log.Fatalf("binding GITHUB_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is octosourcer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the rank command. Without it there is
	// nothing to initialize.
	if rankCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
