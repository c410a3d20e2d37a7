package config

import (
	"time"
)

type ServerConfig struct {
	ReadTimeout  time.Duration `toml:"read-timeout"`
	WriteTimeout time.Duration `toml:"write-timeout"`
	IdleTimeout  time.Duration `toml:"idle-timeout"`
	Concurrency  int           `toml:"concurrency"`
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		Concurrency:  100,
	}
}

type RetryConfig struct {
	Count uint64        `toml:"count"`
	Delay time.Duration `toml:"delay"`
}

type DBConfig struct {
	Host     string       `toml:"host"`
	Port     int          `toml:"port"`
	User     string       `toml:"user"`
	Password string       `toml:"password"`
	Database string       `toml:"database"`
	SSLMode  string       `toml:"sslmode"`
	Retry    *RetryConfig `toml:"retry"`
}

type RedisConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	DB   int    `toml:"db"`
}

type KafkaConsumerConfig struct {
	Brokers []string `toml:"brokers"`
	GroupID string   `toml:"group-id"`
	Topic   string   `toml:"topic"`
	Version string   `toml:"version"`
}

func NewKafkaConsumerConfig() *KafkaConsumerConfig {
	return &KafkaConsumerConfig{
		Brokers: []string{"kafka:9092"},
		GroupID: "carrier_dispatch",
		Topic:   "carrier_dispatch",
	}
}

type KafkaProducerConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
	Version string   `toml:"version"`
}

func NewKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers: []string{"kafka:9092"},
		Topic:   "carrier_order_status",
	}
}

// LalamoveConfig holds connection settings for the carrier REST API.
// The api key and shared secret are read from files so the deployment
// can mount them the same way the postgres/redis passwords are mounted.
type LalamoveConfig struct {
	BaseURL        string        `toml:"base-url"`
	Market         string        `toml:"market"`
	ServiceType    string        `toml:"service-type"`
	Language       string        `toml:"language"`
	APIKeyFile     string        `toml:"api-key-file"`
	SecretFile     string        `toml:"secret-file"`
	ConnectTimeout time.Duration `toml:"connect-timeout"`
	RequestTimeout time.Duration `toml:"request-timeout"`
	SenderName     string        `toml:"sender-name"`
	SenderPhone    string        `toml:"sender-phone"`
	RecipientName  string        `toml:"recipient-name"`
	RecipientPhone string        `toml:"recipient-phone"`
	WebhookURL     string        `toml:"webhook-url"`
}

func NewLalamoveConfig() *LalamoveConfig {
	return &LalamoveConfig{
		BaseURL:        "https://rest.sandbox.lalamove.com",
		Market:         "MY",
		ServiceType:    "MOTORCYCLE",
		Language:       "en_MY",
		APIKeyFile:     "/secret/lalamove/api_key",
		SecretFile:     "/secret/lalamove/secret",
		ConnectTimeout: 30 * time.Second,
		RequestTimeout: 60 * time.Second,
		SenderName:     "Restaurant",
		SenderPhone:    "+60111111111",
		RecipientName:  "Customer",
		RecipientPhone: "+60122222222",
	}
}

type ZenPayConfig struct {
	BaseURL        string        `toml:"base-url"`
	BillerCode     string        `toml:"biller-code"`
	SecretFile     string        `toml:"secret-file"`
	CallbackURL    string        `toml:"callback-url"`
	ReturnURL      string        `toml:"return-url"`
	DeclineURL     string        `toml:"decline-url"`
	Currency       string        `toml:"currency"`
	ConnectTimeout time.Duration `toml:"connect-timeout"`
	RequestTimeout time.Duration `toml:"request-timeout"`
}

func NewZenPayConfig() *ZenPayConfig {
	return &ZenPayConfig{
		SecretFile:     "/secret/zenpay/secret",
		Currency:       "MYR",
		ConnectTimeout: 30 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

// WebhookConfig controls inbound webhook verification and deduplication.
// An empty secret file disables carrier webhook signature checks, for
// carriers that deliver callbacks unauthenticated.
type WebhookConfig struct {
	SecretFile string        `toml:"secret-file"`
	DedupTTL   time.Duration `toml:"dedup-ttl"`
}

func NewWebhookConfig() *WebhookConfig {
	return &WebhookConfig{
		DedupTTL: 10 * time.Minute,
	}
}

// FallbackRouteConfig is the static test route used when an order has no
// usable pickup or dropoff location. Disabled unless explicitly turned on.
type FallbackRouteConfig struct {
	Enabled        bool    `toml:"enabled"`
	PickupLat      float64 `toml:"pickup-lat"`
	PickupLng      float64 `toml:"pickup-lng"`
	PickupAddress  string  `toml:"pickup-address"`
	DropoffLat     float64 `toml:"dropoff-lat"`
	DropoffLng     float64 `toml:"dropoff-lng"`
	DropoffAddress string  `toml:"dropoff-address"`
}

func NewFallbackRouteConfig() *FallbackRouteConfig {
	return &FallbackRouteConfig{
		PickupLat:      3.0136,
		PickupLng:      101.6168,
		PickupAddress:  "IOI Mall Puchong, Bandar Puchong Jaya, 47100 Puchong, Selangor, Malaysia",
		DropoffLat:     3.0109,
		DropoffLng:     101.6179,
		DropoffAddress: "Bandar Puteri Puchong, 47100 Puchong, Selangor, Malaysia",
	}
}

type Config struct {
	BasePath               string               `toml:"base-path"`
	ListenPort             string               `toml:"listen-port"`
	LogLevel               string               `toml:"log-level"`
	LogFile                string               `toml:"log-file"`
	ServerConfig           *ServerConfig        `toml:"server-config"`
	DBConfig               *DBConfig            `toml:"db-config"`
	RedisConfig            *RedisConfig         `toml:"redis-config"`
	Lalamove               *LalamoveConfig      `toml:"lalamove"`
	ZenPay                 *ZenPayConfig        `toml:"zenpay"`
	Webhook                *WebhookConfig       `toml:"webhook"`
	FallbackRoute          *FallbackRouteConfig `toml:"fallback-route"`
	DispatchConsumerConfig *KafkaConsumerConfig `toml:"dispatch-consumer-config"`
	StatusProducerConfig   *KafkaProducerConfig `toml:"status-producer-config"`
}

func NewConfig() *Config {
	return &Config{
		BasePath:   "gateway",
		ListenPort: "8000",
		LogLevel:   "info",
		LogFile:    "stdout",
		DBConfig: &DBConfig{
			Port: 5432,
			Retry: &RetryConfig{
				Count: 3,
				Delay: time.Second,
			},
		},
		RedisConfig: &RedisConfig{
			Host: "redis",
			Port: 6379,
			DB:   0,
		},
		ServerConfig:           NewServerConfig(),
		Lalamove:               NewLalamoveConfig(),
		ZenPay:                 NewZenPayConfig(),
		Webhook:                NewWebhookConfig(),
		FallbackRoute:          NewFallbackRouteConfig(),
		DispatchConsumerConfig: NewKafkaConsumerConfig(),
		StatusProducerConfig:   NewKafkaProducerConfig(),
	}
}
