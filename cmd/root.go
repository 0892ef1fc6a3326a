package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/sourcer/internal/artifact"
	"github.com/spigell/sourcer/internal/batch"
	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/outreach"
	"github.com/spigell/sourcer/internal/pipeline"
	"github.com/spigell/sourcer/internal/search"
)

const (
	app = "sourcer"
)

type Config struct {
	Search    SearchConfig    `mapstructure:"search"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Outreach  outreach.Config `mapstructure:"outreach"`
	AI        *AIConfig       `mapstructure:"ai"`
	Pipeline  pipeline.Config `mapstructure:"pipeline"`
	Batch     batch.Config    `mapstructure:"batch"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

type SearchConfig struct {
	// Provider is "http" or "file".
	Provider string            `mapstructure:"provider"`
	File     string            `mapstructure:"file"`
	HTTP     search.HTTPConfig `mapstructure:"http"`
	Fallback bool              `mapstructure:"fallback"`
}

type CacheConfig struct {
	// Backend is "memory", "redis" or "none".
	Backend    string        `mapstructure:"backend"`
	RedisURL   string        `mapstructure:"redis-url"`
	Prefix     string        `mapstructure:"prefix"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max-entries"`
}

type ScoringConfig struct {
	Weights *candidate.Weights `mapstructure:"weights"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	Prompt   PromptConfig  `mapstructure:"prompt"`
}

type GeminiConfig struct {
	APIKeyFile   string   `mapstructure:"api-key-file"`
	Model        string   `mapstructure:"model"`
	MaxRetries   int      `mapstructure:"max-retries"`
	MaxLogLength int      `mapstructure:"max-log-length"`
	Temperature  *float32 `mapstructure:"temperature"`
}

type PromptConfig struct {
	Sender       string `mapstructure:"sender"`
	Company      string `mapstructure:"company"`
	Tone         string `mapstructure:"tone"`
	Keywords     string `mapstructure:"keywords"`
	Instructions string `mapstructure:"instructions"`
}

type ArtifactsConfig struct {
	// Backend is "file" or "minio".
	Backend string               `mapstructure:"backend"`
	Dir     string               `mapstructure:"dir"`
	Minio   artifact.MinioConfig `mapstructure:"minio"`
}

type ScheduleConfig struct {
	Spec     string `mapstructure:"spec"`
	Requests string `mapstructure:"requests"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "sourcer finds, scores and drafts outreach for candidates matching a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// envBindings maps configuration keys to environment variables.
var envBindings = map[string]string{
	"search.http.token-file":     "SEARCH_TOKEN_FILE",
	"search.http.url":            "SEARCH_URL",
	"cache.redis-url":            "REDIS_URL",
	"ai.gemini.api-key-file":     "GEMINI_API_KEY_FILE",
	"artifacts.minio.endpoint":   "MINIO_ENDPOINT",
	"artifacts.minio.access-key": "MINIO_ACCESS_KEY",
	"artifacts.minio.secret-key": "MINIO_SECRET_KEY",
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is sourcer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("search.provider", "file")
	viper.SetDefault("search.file", "profiles.yaml")
	viper.SetDefault("search.fallback", true)
	viper.SetDefault("cache.backend", "")
	viper.SetDefault("cache.prefix", app+":profiles:")
	viper.SetDefault("artifacts.backend", "file")
	viper.SetDefault("artifacts.dir", ".")
	viper.SetDefault("batch.workers", batch.DefaultWorkers)
	viper.SetDefault("batch.min-delay", batch.DefaultMinDelay)
	viper.SetDefault("batch.max-delay", batch.DefaultMaxDelay)
	viper.SetDefault("schedule.spec", "@every 24h")
}

func initConfig() {
	// .env is optional and never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error. A missing
	// default config is fine: every key has a default.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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
