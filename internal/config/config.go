package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// CountPolicyTrust keeps the cnt column as read from the file.
	CountPolicyTrust = "trust"
	// CountPolicyRecompute replaces cnt with casual + registered.
	CountPolicyRecompute = "recompute"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Dataset      Dataset      `mapstructure:",squash"`
	Cors         Cors         `mapstructure:",squash"`
	DatasetWatch DatasetWatch `mapstructure:",squash"`
	Cron         Cron         `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Dataset struct {
	Path        string `mapstructure:"dataset_path"`
	CountPolicy string `mapstructure:"dataset_count_policy"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type DatasetWatch struct {
	CronSchedule string `mapstructure:"dataset_watch_cron"`
	Enabled      bool   `mapstructure:"dataset_watch_enabled"`
}

// Cron guards the manual cron routes. An empty secret locks them.
type Cron struct {
	JWTSecret string `mapstructure:"cron_jwt_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATASET_PATH", "main_data.csv")
	viper.SetDefault("DATASET_COUNT_POLICY", CountPolicyTrust)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATASET_WATCH_CRON", "*/10 * * * *") // every 10 minutes
	viper.SetDefault("DATASET_WATCH_ENABLED", false)
	viper.SetDefault("CRON_JWT_SECRET", "")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("config: .env not read by viper, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}

	config.Dataset.CountPolicy = strings.ToLower(strings.TrimSpace(config.Dataset.CountPolicy))
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return errors.New("config: DATASET_PATH must not be empty")
	}

	switch c.Dataset.CountPolicy {
	case CountPolicyTrust, CountPolicyRecompute:
	default:
		return errors.Errorf("config: unknown DATASET_COUNT_POLICY %q", c.Dataset.CountPolicy)
	}

	return nil
}

// loadEnvFile loads the first .env found in the working directory or its parents.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("config: could not read working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("config: .env loaded from ", location)
			return
		}
	}

	logrus.Debug("config: no .env file found, using environment only")
}
