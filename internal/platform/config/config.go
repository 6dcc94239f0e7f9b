package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	MaxOpenConns  int
	StatementWait time.Duration

	EmailSentTopic    string
	ReplyTopic        string
	ClientImportTopic string

	EnableEmailSentConsumer    bool
	EnableReplyConsumer        bool
	EnableClientImportConsumer bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "crmhub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		MaxOpenConns:  envInt("POSTGRES_MAX_OPEN_CONNS", 10),
		StatementWait: envDuration("POSTGRES_STATEMENT_WAIT", 5*time.Second),

		EmailSentTopic:    envString("TOPIC_EMAIL_SENT", "emailer.email.sent"),
		ReplyTopic:        envString("TOPIC_EMAIL_REPLY", "emailer.email.reply"),
		ClientImportTopic: envString("TOPIC_CLIENT_IMPORT", "emailer.client.import"),

		EnableEmailSentConsumer:    envBool("ENABLE_EMAIL_SENT_CONSUMER", true),
		EnableReplyConsumer:        envBool("ENABLE_REPLY_CONSUMER", true),
		EnableClientImportConsumer: envBool("ENABLE_CLIENT_IMPORT_CONSUMER", true),
	}, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
