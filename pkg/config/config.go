package config

import "time"

// Inbox definition inbox_service YAML structure
type Inbox struct {
	Port       string         `mapstructure:"port"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	Rabbit     RabbitConfig   `mapstructure:"rabbit"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
	Line       LineConfig     `mapstructure:"line"`
	Feed       FeedConfig     `mapstructure:"feed"`
}

// SuggestionWorker definition suggestion_worker YAML structure
type SuggestionWorker struct {
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	MongoSQL   DatabaseConfig `mapstructure:"mongo"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Rabbit     RabbitConfig   `mapstructure:"rabbit"`
	OpenAI     OpenAIConfig   `mapstructure:"openai"`
}

// Analytics definition analytics_service YAML structure
type Analytics struct {
	Port       string         `mapstructure:"port"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	OpenAI     OpenAIConfig   `mapstructure:"openai"`
}

// Settings definition settings_service YAML structure
type Settings struct {
	Port       string         `mapstructure:"port"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	GroupID       string   `mapstructure:"group_id"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// RabbitConfig definition rabbitmq setting
type RabbitConfig struct {
	URL           string `mapstructure:"url"`
	Queue         string `mapstructure:"queue"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// OpenAIConfig definition openai setting
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// LineConfig definition LINE channel setting
type LineConfig struct {
	ChannelAccessToken string `mapstructure:"channel_access_token"`
}

// FeedConfig definition feed synchronizer setting
type FeedConfig struct {
	PageSize             int           `mapstructure:"page_size"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	ReconnectBaseBackoff time.Duration `mapstructure:"reconnect_base_backoff"`
	ReconnectMaxBackoff  time.Duration `mapstructure:"reconnect_max_backoff"`
	ReconnectMaxAttempts int           `mapstructure:"reconnect_max_attempts"`
}
