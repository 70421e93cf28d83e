package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Email    EmailConfig    `yaml:"email"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	ReferencePrefix       string `yaml:"reference_prefix"`
	BaseFare              int64  `yaml:"base_fare"`
	BookingFee            int64  `yaml:"booking_fee"`
	HoldTTLMinutes        int    `yaml:"hold_ttl_minutes"`
	RoutesCacheTTLSeconds int    `yaml:"routes_cache_ttl_seconds"`
}

type WorkerConfig struct {
	HoldSweepMinutes int `yaml:"hold_sweep_minutes"`
}

type EmailConfig struct {
	From string `yaml:"from"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills the fare schedule and booking knobs when the file
// omits them. The fare constants are the carrier's fixed tariff.
func (c *Config) applyDefaults() {
	if c.Booking.ReferencePrefix == "" {
		c.Booking.ReferencePrefix = "SLE"
	}
	if c.Booking.BaseFare == 0 {
		c.Booking.BaseFare = 2500
	}
	if c.Booking.BookingFee == 0 {
		c.Booking.BookingFee = 100
	}
	if c.Booking.HoldTTLMinutes == 0 {
		c.Booking.HoldTTLMinutes = 10
	}
	if c.Worker.HoldSweepMinutes == 0 {
		c.Worker.HoldSweepMinutes = 1
	}
}
