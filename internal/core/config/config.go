package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-this-secret-key"

type HTTP struct {
	Host            string
	Port            int
	BasePath        string
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	RequestTimeout  int // seconds, per request
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxConcurrent   int64
	MaxBodyBytes    int64
	CORSOrigins     []string
	TrustedProxies  []string // CIDRs or IPs allowed to set X-Forwarded-For
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

func (a App) Production() bool { return strings.EqualFold(a.Env, "production") }

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret   string
	Issuer   string
	TTLHours int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.TTLHours) * time.Hour }

type Auth struct {
	CookieName      string
	VerifyAccount   bool // re-check account status/role on every request
	AccountCacheSec int
	LoginRateLimit  float64 // per IP, requests/sec
	LoginRateBurst  int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r Redis) Enabled() bool { return r.Addr != "" }

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Bootstrap struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	Auth      Auth
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	Bootstrap Bootstrap
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fitdesk")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.basePath", "/api")
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeout", 10)
	v.SetDefault("app.http.rateLimitRPS", 200)
	v.SetDefault("app.http.rateLimitBurst", 400)
	v.SetDefault("app.http.maxConcurrent", 300)
	v.SetDefault("app.http.maxBodyBytes", 1<<20)
	v.SetDefault("app.http.corsOrigins", []string{})
	v.SetDefault("app.http.trustedProxies", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.compress", false)
	v.SetDefault("log.file.filename", "logs/fitdesk.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)

	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.issuer", "fitdesk")
	v.SetDefault("jwt.ttlHours", 7*24)

	v.SetDefault("auth.cookieName", "token")
	v.SetDefault("auth.verifyAccount", true)
	v.SetDefault("auth.accountCacheSec", 30)
	v.SetDefault("auth.loginRateLimit", 1)
	v.SetDefault("auth.loginRateBurst", 10)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("bootstrap.adminEmail", "")
	v.SetDefault("bootstrap.adminPassword", "")
	v.SetDefault("bootstrap.adminName", "Administrator")
}

// Load reads the YAML file at path (or CONFIG_PATH, or the local default) and
// applies APP_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return c
}

// InsecureSecret reports whether the built-in signing secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret
}

func (c *Config) Validate() error {
	if c.App.Production() && c.InsecureSecret() {
		return errors.New("jwt.secret must be set in production")
	}
	switch c.DB.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.JWT.TTLHours <= 0 {
		return errors.New("jwt.ttlHours must be positive")
	}
	if c.Auth.CookieName == "" {
		return errors.New("auth.cookieName must not be empty")
	}
	return nil
}
