package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	Store   StoreConfig
	KV      KVConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Remote  RemoteConfig
	Builder BuilderConfig
	Export  ExportConfig
	S3      S3Config
	Chrome  ChromeConfig
	HTTP    HTTPConfig
}

type AppConfig struct {
	Env  string
	Port string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// StoreConfig selects the document store behind the sections API.
type StoreConfig struct {
	Driver      string // memory, postgres, mongo
	DatabaseURL string
}

// KVConfig selects the key-value storage that holds the local document.
type KVConfig struct {
	Driver string // file, redis, memory
	Dir    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type BuilderConfig struct {
	Repository string // local, remote
}

type ExportConfig struct {
	Mode string // print, raster
	Sink string // dir, s3
	Dir  string
}

type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	Prefix       string
}

type ChromeConfig struct {
	Path    string
	Timeout time.Duration
}

type HTTPConfig struct {
	CORSAllowOrigins []string
	BodyLimit        int
}

// Load reads configuration with the following priority (highest first):
// RESUME_ prefixed environment variables, config.toml, built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("RESUME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(v.GetString("store.driver")),
			DatabaseURL: v.GetString("database.url"),
		},
		KV: KVConfig{
			Driver: strings.ToLower(v.GetString("kv.driver")),
			Dir:    v.GetString("kv.dir"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("mongo.uri"),
			Database:   v.GetString("mongo.database"),
			Collection: v.GetString("mongo.collection"),
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(v.GetString("remote.base_url"), "/"),
			Timeout: v.GetDuration("remote.timeout"),
		},
		Builder: BuilderConfig{
			Repository: strings.ToLower(v.GetString("builder.repository")),
		},
		Export: ExportConfig{
			Mode: strings.ToLower(v.GetString("export.mode")),
			Sink: strings.ToLower(v.GetString("export.sink")),
			Dir:  v.GetString("export.dir"),
		},
		S3: S3Config{
			Endpoint:     v.GetString("s3.endpoint"),
			Region:       v.GetString("s3.region"),
			Bucket:       v.GetString("s3.bucket"),
			AccessKey:    v.GetString("s3.access_key"),
			SecretKey:    v.GetString("s3.secret_key"),
			UsePathStyle: v.GetBool("s3.use_path_style"),
			Prefix:       v.GetString("s3.prefix"),
		},
		Chrome: ChromeConfig{
			Path:    v.GetString("chrome.path"),
			Timeout: v.GetDuration("chrome.timeout"),
		},
		HTTP: HTTPConfig{
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			BodyLimit:        v.GetInt("http.body_limit"),
		},
	}

	// legacy variables used by earlier deployments
	if cfg.Store.DatabaseURL == "" {
		cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = os.Getenv("MONGO_URI")
	}
	if cfg.Chrome.Path == "" {
		cfg.Chrome.Path = os.Getenv("CHROME_PATH")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "4000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("kv.driver", "file")
	v.SetDefault("kv.dir", "resume-data/storage")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "resume:")
	v.SetDefault("mongo.database", "resume")
	v.SetDefault("mongo.collection", "resumesections")
	v.SetDefault("remote.base_url", "http://localhost:4000")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("builder.repository", "local")
	v.SetDefault("export.mode", "print")
	v.SetDefault("export.sink", "dir")
	v.SetDefault("export.dir", "resume-data/generated")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "exports/")
	v.SetDefault("chrome.timeout", 60*time.Second)
	v.SetDefault("http.cors_allow_origins", []string{"*"})
	v.SetDefault("http.body_limit", 8*1024*1024)
}

// Validate rejects unknown driver and mode names.
func (c *Config) Validate() error {
	checks := []struct {
		key, val string
		allowed  []string
	}{
		{"store.driver", c.Store.Driver, []string{"memory", "postgres", "mongo"}},
		{"kv.driver", c.KV.Driver, []string{"file", "redis", "memory"}},
		{"builder.repository", c.Builder.Repository, []string{"local", "remote"}},
		{"export.mode", c.Export.Mode, []string{"print", "raster"}},
		{"export.sink", c.Export.Sink, []string{"dir", "s3"}},
	}
	for _, ch := range checks {
		if !contains(ch.allowed, ch.val) {
			return fmt.Errorf("invalid %s %q (allowed: %s)", ch.key, ch.val, strings.Join(ch.allowed, ", "))
		}
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return fmt.Errorf("database.url is required when store.driver is postgres")
	}
	if c.Store.Driver == "mongo" && c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required when store.driver is mongo")
	}
	if c.Export.Sink == "s3" && c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when export.sink is s3")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
