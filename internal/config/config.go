package config

import (
	"fmt"

	"github.com/spf13/viper"

	"ecoreport/internal/pkg/validator"
)

type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	JWT      JWT      `mapstructure:"jwt"`
	Blob     Blob     `mapstructure:"blob"`
	Upload   Upload   `mapstructure:"upload"`
	Events   Events   `mapstructure:"events"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN string `mapstructure:"dsn" validate:"required"`
}

type JWT struct {
	Secret   string `mapstructure:"secret" validate:"required"`
	TTLHours int    `mapstructure:"ttl_hours" validate:"min=1"`
}

// Blob configures the MinIO object storage where report photos live.
type Blob struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	PublicURL string `mapstructure:"public_url"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Upload configures the image normalization and upload pipeline.
type Upload struct {
	MaxFiles     int  `mapstructure:"max_files"`
	Parallel     bool `mapstructure:"parallel"`
	MaxWidth     int  `mapstructure:"max_width"`
	MinSizeBytes int  `mapstructure:"min_size_bytes"`
	MaxSizeBytes int  `mapstructure:"max_size_bytes"`
}

// Events configures the optional AMQP publisher for report lifecycle events.
type Events struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Queue   string `mapstructure:"queue"`
}

// Load reads the YAML config file (if given) and applies environment
// overrides. DATABASE_URL and JWT_SECRET keep their plain names so
// deployments can set just those two.
func Load(filename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if filename != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", filename, err)
		}
	}

	_ = v.BindEnv("database.dsn", "DATABASE_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("blob.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("blob.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("blob.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("blob.bucket", "MINIO_BUCKET")
	_ = v.BindEnv("blob.public_url", "MINIO_PUBLIC_URL")
	_ = v.BindEnv("events.url", "AMQP_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if errs := validator.Validate(cfg); errs != nil {
		return nil, fmt.Errorf("invalid config: %v", errs)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("jwt.ttl_hours", 24)
	v.SetDefault("blob.bucket", "report-photos")
	v.SetDefault("blob.use_ssl", true)
	v.SetDefault("upload.max_files", 3)
	v.SetDefault("upload.parallel", true)
	v.SetDefault("upload.max_width", 1280)
	v.SetDefault("upload.min_size_bytes", 200*1024)
	v.SetDefault("upload.max_size_bytes", 400*1024)
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.queue", "report_events")
}
