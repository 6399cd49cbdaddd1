package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Port        string
	WorkerPort  string
	DB          DBConfig
	RedisAddr   string
	KafkaBroker string
	JWT         JWTConfig
	Outbox      OutboxConfig
	Admin       AdminConfig
}

type DBConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

// DSN renders the key/value connection string understood by pgx and gorm.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// AdminConfig seeds the first administrator when both email and password are set.
type AdminConfig struct {
	Email    string
	Name     string
	Password string
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the process environment. Call godotenv.Load
// beforehand if a .env file should be honoured.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("WORKER_PORT", "9100")
	setDBDefaults(v)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("JWT_TTL", "15m")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 50)
	v.SetDefault("ADMIN_NAME", "Administrator")

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		Port:        v.GetString("PORT"),
		WorkerPort:  v.GetString("WORKER_PORT"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		KafkaBroker: v.GetString("KAFKA_BROKER"),
		DB:          readDB(v),
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Outbox: OutboxConfig{
			PollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
			BatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Name:     v.GetString("ADMIN_NAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDB reads only the DB_* keys. Tools that just talk to Postgres, like
// the migrator, use it so they don't need the API's secrets.
func LoadDB() (DBConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDBDefaults(v)

	db := readDB(v)
	if errs := db.validate(); len(errs) > 0 {
		return DBConfig{}, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return db, nil
}

func setDBDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)
}

func readDB(v *viper.Viper) DBConfig {
	return DBConfig{
		Host:       v.GetString("DB_HOST"),
		User:       v.GetString("DB_USER"),
		Password:   v.GetString("DB_PASSWORD"),
		Name:       v.GetString("DB_NAME"),
		Port:       v.GetString("DB_PORT"),
		SSLMode:    v.GetString("DB_SSLMODE"),
		MaxRetries: v.GetInt("DB_MAX_RETRIES"),
	}
}

func (c DBConfig) validate() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_RETRIES must be at least 1, got %d", c.MaxRetries))
	}
	return errs
}

func (c *Config) validate() error {
	errs := c.DB.validate()
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
