package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string         `mapstructure:"port"`
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Database    DatabaseConfig `mapstructure:"database"`
	JWT         JWTConfig      `mapstructure:"jwt"`
	Mongo       MongoConfig    `mapstructure:"mongo"`
	History     HistoryConfig  `mapstructure:"history"`
	Redis       RedisConfig    `mapstructure:"redis"`
	ML          MLConfig       `mapstructure:"ml"`
	Groq        GroqConfig     `mapstructure:"groq"`
	Gemini      GeminiConfig   `mapstructure:"gemini"`
	Weather     WeatherConfig  `mapstructure:"weather"`
	Wiki        WikiConfig     `mapstructure:"wiki"`
	R2          R2Config       `mapstructure:"r2"`
	Google      GoogleOAuth    `mapstructure:"google"`
	CORS        CORSConfig     `mapstructure:"cors"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     string `mapstructure:"port"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// HistoryConfig selects where prediction history is written: "sql" or "mongo".
type HistoryConfig struct {
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MLConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GroqConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WikiConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type R2Config struct {
	AccountID       string `mapstructure:"account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	PublicURL       string `mapstructure:"public_url"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
}

type GoogleOAuth struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "agrivista")
	v.SetDefault("database.port", "5432")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 7*24*time.Hour)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "agrivista")
	v.SetDefault("history.backend", "sql")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ml.url", "http://localhost:8000")
	v.SetDefault("ml.timeout", 10*time.Second)
	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.timeout", 30*time.Second)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "https://api.weatherapi.com/v1")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("wiki.base_url", "https://en.wikipedia.org/api/rest_v1")
	v.SetDefault("r2.account_id", "")
	v.SetDefault("r2.access_key_id", "")
	v.SetDefault("r2.secret_access_key", "")
	v.SetDefault("r2.bucket_name", "")
	v.SetDefault("r2.public_url", "")
	v.SetDefault("r2.region", "auto")
	v.SetDefault("r2.endpoint", "")
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "")
	v.SetDefault("cors.origins", []string{"http://localhost:5173"})
}

// Legacy variable names used by existing deployments.
var envAliases = map[string][]string{
	"database.host":        {"DB_HOST"},
	"database.user":        {"DB_USER"},
	"database.password":    {"DB_PASSWORD"},
	"database.name":        {"DB_NAME"},
	"database.port":        {"DB_PORT"},
	"database.dsn":         {"DATABASE_URL"},
	"mongo.uri":            {"MONGO_URI", "MONGODB_URI"},
	"ml.url":               {"ML_URL", "ML_SERVICE_URL"},
	"r2.account_id":        {"CLOUDFLARE_ACCOUNT_ID"},
	"r2.access_key_id":     {"CLOUDFLARE_ACCESS_KEY_ID"},
	"r2.secret_access_key": {"CLOUDFLARE_SECRET_ACCESS_KEY"},
	"r2.bucket_name":       {"CLOUDFLARE_BUCKET_NAME"},
	"r2.public_url":        {"CLOUDFLARE_PUBLIC_URL"},
	"google.redirect_url":  {"GOOGLE_REDIRECT_URL"},
}

// Load reads .env (if any), then config.yaml from "." or "./config", then the environment.
// Later sources win.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)...); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is required")
	}
	switch c.History.Backend {
	case "sql", "":
	case "mongo":
		if c.Mongo.URI == "" {
			return errors.New("history.backend=mongo requires mongo.uri")
		}
	default:
		return fmt.Errorf("unknown history.backend %q", c.History.Backend)
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "production"
}

// DSNString returns database.dsn when set and otherwise assembles one from the discrete fields.
func (c DatabaseConfig) DSNString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}
