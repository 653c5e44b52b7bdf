package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	MongoDriver  = "mongodb"
	MySQLDriver  = "mysql"
	SQLiteDriver = "sqlite"
)

type Configs struct {
	Env string `toml:"env"`

	Log       LogConfigs       `toml:"log"`
	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Webhook   WebhookConfigs   `toml:"webhook"`
	Storage   S3Configs        `toml:"storage"`
	File      FileConfigs      `toml:"file"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Thread    ThreadConfigs    `toml:"thread"`
}

type LogConfigs struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type DatabaseConfigs struct {
	// Driver is one of mongodb, mysql or sqlite.
	Driver string `toml:"driver"`

	// URI is the mongodb connection string or the sqlite file name.
	URI            string        `toml:"uri"`
	Database       string        `toml:"database"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`

	// MySQL only.
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	MaxLimit       int      `toml:"max_limit"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type AuthConfigs struct {
	// Issuer is the OIDC issuer url of the identity provider.
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
}

type WebhookConfigs struct {
	Secret    string        `toml:"secret"`
	Tolerance time.Duration `toml:"tolerance"`
	// MaxBodySize bounds the payload read before its signature is checked.
	MaxBodySize int64 `toml:"max_body_size"`
}

type S3Configs struct {
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
}

type FileConfigs struct {
	MaxSize int64 `toml:"max_size"`
}

type KafkaConfigs struct {
	Addr     string `toml:"addr"`
	ClientID string `toml:"client_id"`
}

type ThreadConfigs struct {
	MinTextLength int `toml:"min_text_length"`
	MaxTextLength int `toml:"max_text_length"`
}

func Default() Configs {
	return Configs{
		Env: "local",
		Log: LogConfigs{Level: "info"},
		Database: DatabaseConfigs{
			Driver:         MongoDriver,
			URI:            "mongodb://localhost:27017/?replicaSet=rs0",
			Database:       "echo",
			ConnectTimeout: 10 * time.Second,
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Port: "8080"},
			MaxLimit:       50,
			AllowedOrigins: []string{"*"},
		},
		Webhook: WebhookConfigs{Tolerance: 5 * time.Minute, MaxBodySize: 1 << 20},
		File:    FileConfigs{MaxSize: 2 * 1024 * 1024},
		Kafka:   KafkaConfigs{ClientID: "echo"},
		Thread:  ThreadConfigs{MinTextLength: 3, MaxTextLength: 2000},
	}
}

// Load reads the toml file at path (if not empty) on top of Default, then
// applies environment overrides.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Configs) {
	cfg.Env = getenv("ENV", cfg.Env)
	cfg.Log.Level = getenv("LOG_LEVEL", cfg.Log.Level)

	cfg.Database.Driver = getenv("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.URI = getenv("DATABASE_URI", cfg.Database.URI)
	cfg.Database.Database = getenv("DATABASE_NAME", cfg.Database.Database)
	cfg.Database.Host = getenv("DATABASE_HOST", cfg.Database.Host)
	cfg.Database.Port = getenv("DATABASE_PORT", cfg.Database.Port)
	cfg.Database.User = getenv("DATABASE_USER", cfg.Database.User)
	cfg.Database.Password = getenv("DATABASE_PASSWORD", cfg.Database.Password)

	cfg.ApiServer.Host = getenv("API_HOST", cfg.ApiServer.Host)
	cfg.ApiServer.Port = getenv("API_PORT", cfg.ApiServer.Port)
	cfg.ApiServer.MaxLimit = getenvInt("API_MAX_LIMIT", cfg.ApiServer.MaxLimit)
	if origins := os.Getenv("API_ALLOWED_ORIGINS"); origins != "" {
		cfg.ApiServer.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.Auth.Issuer = getenv("AUTH_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.ClientID = getenv("AUTH_CLIENT_ID", cfg.Auth.ClientID)
	cfg.Webhook.Secret = getenv("WEBHOOK_SECRET", cfg.Webhook.Secret)

	cfg.Storage.Region = getenv("S3_REGION", cfg.Storage.Region)
	cfg.Storage.Endpoint = getenv("S3_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.PublicEndpoint = getenv("S3_PUBLIC_ENDPOINT", cfg.Storage.PublicEndpoint)
	cfg.Storage.Bucket = getenv("S3_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.AccessKey = getenv("S3_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = getenv("S3_SECRET_KEY", cfg.Storage.SecretKey)

	cfg.Kafka.Addr = getenv("KAFKA_ADDR", cfg.Kafka.Addr)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
