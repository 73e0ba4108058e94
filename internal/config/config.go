package config

// Config holds all application configuration for both servers.
// Settings are organized into logical groups; each server reads the
// sections it needs.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Kafka    KafkaConfig    `mapstructure:"kafka"    validate:"required"`
	Rollover RolloverConfig `mapstructure:"rollover" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains HTTP server settings shared by both binaries.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// KafkaConfig contains event log settings. ConsumerGroup is only used by
// the report server; instances sharing the group split partitions.
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"        validate:"required,min=1,dive,required"`
	Topic         string   `mapstructure:"topic"          validate:"required"`
	ConsumerGroup string   `mapstructure:"consumer_group" validate:"required"`
}

// RolloverConfig contains day-rollover scheduler settings. RunAt is the
// daily wall-clock run time in "15:04" form; a catch-up pass also runs at
// startup regardless.
type RolloverConfig struct {
	RunAt string `mapstructure:"run_at" validate:"required"`
}

// AuthConfig contains settings for the auth service user-lookup client.
type AuthConfig struct {
	ServiceURL     string `mapstructure:"service_url"     validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}
