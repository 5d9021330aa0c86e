package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AGRICGROW_DB_HOST.
const EnvPrefix = "AGRICGROW"

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Port     int
	MaxConns int32
}

type KafkaConfig struct {
	Brokers            []string
	ClientID           string
	ConsumerGroup      string
	EventsTopic        string
	NotificationsTopic string
	RepaymentsTopic    string
	SASLMechanism      string
	SASLUsername       string
	SASLPassword       string
	CAFile             string
	TLS                bool
	SASLEnabled        bool
	ConsumeRepayments  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SweepConfig struct {
	Interval    time.Duration
	LockTTL     time.Duration
	PageSize    int
	Concurrency int
	Enabled     bool
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Endpoint    string
	SampleRatio float64
	Enabled     bool
	Insecure    bool
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

type Config struct {
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Sweep          SweepConfig
	Log            LogConfig
	Tracing        TracingConfig
	TLS            TLSConfig
	ServiceName    string
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
}

// SetDefaults registers every key with its default so environment overrides
// resolve even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "agricgrow-lending")
	v.SetDefault("grpc_port", 9090)
	v.SetDefault("http_port", 8080)
	v.SetDefault("grpc_reflection", false)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "agricgrow")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "agricgrow")
	v.SetDefault("db.sslmode", "require")
	v.SetDefault("db.max_conns", 10)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.client_id", "agricgrow-lending")
	v.SetDefault("kafka.consumer_group", "agricgrow-lending")
	v.SetDefault("kafka.events_topic", "agricgrow.lending.events")
	v.SetDefault("kafka.notifications_topic", "agricgrow.notifications")
	v.SetDefault("kafka.repayments_topic", "agricgrow.payments.repayments")
	v.SetDefault("kafka.consume_repayments", true)
	v.SetDefault("kafka.tls", false)
	v.SetDefault("kafka.ca_file", "")
	v.SetDefault("kafka.sasl_enabled", false)
	v.SetDefault("kafka.sasl_mechanism", "")
	v.SetDefault("kafka.sasl_username", "")
	v.SetDefault("kafka.sasl_password", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.interval", time.Hour)
	v.SetDefault("sweep.lock_ttl", 10*time.Minute)
	v.SetDefault("sweep.page_size", 200)
	v.SetDefault("sweep.concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("tls.client_ca_file", "")
}

// New returns a viper instance with defaults and environment binding set up.
// An optional config file is read when path is non-empty.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load builds the Config from v.
func Load(v *viper.Viper) Config {
	return Config{
		ServiceName:    v.GetString("service_name"),
		GRPCPort:       v.GetInt("grpc_port"),
		HTTPPort:       v.GetInt("http_port"),
		GRPCReflection: v.GetBool("grpc_reflection"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			MaxConns: v.GetInt32("db.max_conns"),
		},
		Kafka: KafkaConfig{
			Brokers:            v.GetStringSlice("kafka.brokers"),
			ClientID:           v.GetString("kafka.client_id"),
			ConsumerGroup:      v.GetString("kafka.consumer_group"),
			EventsTopic:        v.GetString("kafka.events_topic"),
			NotificationsTopic: v.GetString("kafka.notifications_topic"),
			RepaymentsTopic:    v.GetString("kafka.repayments_topic"),
			ConsumeRepayments:  v.GetBool("kafka.consume_repayments"),
			TLS:                v.GetBool("kafka.tls"),
			CAFile:             v.GetString("kafka.ca_file"),
			SASLEnabled:        v.GetBool("kafka.sasl_enabled"),
			SASLMechanism:      v.GetString("kafka.sasl_mechanism"),
			SASLUsername:       v.GetString("kafka.sasl_username"),
			SASLPassword:       v.GetString("kafka.sasl_password"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Sweep: SweepConfig{
			Enabled:     v.GetBool("sweep.enabled"),
			Interval:    v.GetDuration("sweep.interval"),
			LockTTL:     v.GetDuration("sweep.lock_ttl"),
			PageSize:    v.GetInt("sweep.page_size"),
			Concurrency: v.GetInt("sweep.concurrency"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			Endpoint:    v.GetString("tracing.endpoint"),
			Insecure:    v.GetBool("tracing.insecure"),
			SampleRatio: v.GetFloat64("tracing.sample_ratio"),
		},
		TLS: TLSConfig{
			CertFile:     v.GetString("tls.cert_file"),
			KeyFile:      v.GetString("tls.key_file"),
			ClientCAFile: v.GetString("tls.client_ca_file"),
		},
	}
}

// Validate reports configuration the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("db.password is required (AGRICGROW_DB_PASSWORD)"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers must not be empty"))
	}
	if c.Sweep.Enabled && c.Sweep.Interval <= 0 {
		errs = append(errs, errors.New("sweep.interval must be positive"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("tls.cert_file and tls.key_file must be set together"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
