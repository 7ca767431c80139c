package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverHTTP     = "http"
	StoreDriverPostgres = "postgres"

	PushDriverNone     = "none"
	PushDriverRedis    = "redis"
	PushDriverKafka    = "kafka"
	PushDriverPostgres = "postgres"

	NotifyDriverLog      = "log"
	NotifyDriverRabbitMQ = "rabbitmq"
)

// Config holds the application settings.
// Tags used:
//   - mapstructure: environment variable read by viper
//   - default: value used when the variable is unset
//   - required: "true" fails loading when the value is empty
type Config struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `mapstructure:"HTTP_PORT" default:"8080" required:"true"`

	Store    StoreConfig    `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Polling  PollingConfig  `mapstructure:",squash"`
	Push     PushConfig     `mapstructure:",squash"`
	Notify   NotifyConfig   `mapstructure:",squash"`
}

// StoreConfig selects how the external store is reached.
type StoreConfig struct {
	Driver   string        `mapstructure:"STORE_DRIVER" default:"http" required:"true"`
	BaseURL  string        `mapstructure:"STORE_BASE_URL"`
	APIToken string        `mapstructure:"STORE_API_TOKEN"`
	Timeout  time.Duration `mapstructure:"STORE_TIMEOUT" default:"10s"`
}

// DatabaseConfig is used by the postgres store and the postgres push channel.
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST" default:"localhost"`
	Port     int    `mapstructure:"DB_PORT" default:"5432"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SslMode  string `mapstructure:"DB_SSLMODE" default:"disable"`
}

// DSN renders the settings as a libpq connection URL.
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: url.Values{"sslmode": {c.SslMode}}.Encode(),
	}
	return u.String()
}

type PollingConfig struct {
	ShipmentInterval time.Duration `mapstructure:"SHIPMENT_POLL_INTERVAL" default:"10s"`
	IssueInterval    time.Duration `mapstructure:"ISSUE_POLL_INTERVAL" default:"15s"`
	RiderInterval    time.Duration `mapstructure:"RIDER_POLL_INTERVAL" default:"15s"`
	ResponseInterval time.Duration `mapstructure:"RESPONSE_POLL_INTERVAL" default:"5s"`
	StaleAfter       time.Duration `mapstructure:"STALE_AFTER" default:"1m"`
	IssueWindow      time.Duration `mapstructure:"ISSUE_WINDOW" default:"168h"`
	FeedSize         int           `mapstructure:"NOTIFICATION_FEED_SIZE" default:"500"`
}

type PushConfig struct {
	Driver        string   `mapstructure:"PUSH_DRIVER" default:"none"`
	RedisURL      string   `mapstructure:"REDIS_URL"`
	ChannelPrefix string   `mapstructure:"PUSH_CHANNEL_PREFIX" default:"dispatch"`
	KafkaBrokers  []string `mapstructure:"KAFKA_BROKERS"`
	ConsumerGroup string   `mapstructure:"KAFKA_CONSUMER_GROUP" default:"shopdispatch"`
}

type NotifyConfig struct {
	Driver      string `mapstructure:"NOTIFY_DRIVER" default:"log"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`
	Queue       string `mapstructure:"NOTIFY_QUEUE" default:"dispatch.notifications"`
}

// IsProduction reports whether logs should be JSON.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// SlogLevel parses LOG_LEVEL, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig reads dir/.env when present, then the environment.
func LoadConfig(dir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	var config Config
	if err := processTags(v, &config); err != nil {
		return Config{}, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return Config{}, err
	}

	if err := config.validateDrivers(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validateDrivers() error {
	var problems []error

	switch c.Store.Driver {
	case StoreDriverHTTP:
		if c.Store.BaseURL == "" {
			problems = append(problems, missing("STORE_BASE_URL"))
		}
	case StoreDriverPostgres:
		problems = append(problems, c.Database.validate())
	default:
		problems = append(problems, unknownDriver("STORE_DRIVER", c.Store.Driver))
	}

	switch c.Push.Driver {
	case PushDriverNone:
	case PushDriverRedis:
		if c.Push.RedisURL == "" {
			problems = append(problems, missing("REDIS_URL"))
		}
	case PushDriverKafka:
		if len(c.Push.KafkaBrokers) == 0 {
			problems = append(problems, missing("KAFKA_BROKERS"))
		}
	case PushDriverPostgres:
		if c.Store.Driver != StoreDriverPostgres {
			problems = append(problems, c.Database.validate())
		}
	default:
		problems = append(problems, unknownDriver("PUSH_DRIVER", c.Push.Driver))
	}

	switch c.Notify.Driver {
	case NotifyDriverLog:
	case NotifyDriverRabbitMQ:
		if c.Notify.RabbitMQURL == "" {
			problems = append(problems, missing("RABBITMQ_URL"))
		}
	default:
		problems = append(problems, unknownDriver("NOTIFY_DRIVER", c.Notify.Driver))
	}

	return errors.Join(problems...)
}

func (c DatabaseConfig) validate() error {
	var problems []error
	if c.User == "" {
		problems = append(problems, missing("DB_USER"))
	}
	if c.Name == "" {
		problems = append(problems, missing("DB_NAME"))
	}
	return errors.Join(problems...)
}

func missing(key string) error {
	return fmt.Errorf("missing required configuration: %s", key)
}

func unknownDriver(key, value string) error {
	return fmt.Errorf("unknown %s %q", key, value)
}

// processTags binds every tagged field to its environment variable and sets defaults.
func processTags(v *viper.Viper, config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
	return nil
}

// validateRequired checks that fields tagged required are not zero.
func validateRequired(config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return missing(field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
