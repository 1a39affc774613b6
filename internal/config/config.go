package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all report settings, populated from environment variables.
type Config struct {
	InputPath  string
	InputSheet string

	// Chart output. An empty ChartPath disables the image renderer.
	ChartPath   string
	ChartWidth  Length
	ChartHeight Length

	// XLSXPath enables the workbook writer when set.
	XLSXPath string

	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	PublishTimeout  time.Duration
	MetricsTextfile string

	LogLevel  string
	LogFormat string
}

// Length is a chart dimension in typographic points.
type Length float64

const (
	pointsPerInch = 72.0
	pointsPerCM   = pointsPerInch / 2.54
)

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory seeds variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	publishTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("PUBLISH_TIMEOUT", "10s"))
	if err != nil || publishTimeout <= 0 {
		return nil, errors.New("invalid PUBLISH_TIMEOUT")
	}

	width, err := ParseLength(sharedcfg.EnvOrDefault("CHART_WIDTH", "10in"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHART_WIDTH: %w", err)
	}
	height, err := ParseLength(sharedcfg.EnvOrDefault("CHART_HEIGHT", "6in"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHART_HEIGHT: %w", err)
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := brokers != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}
	var kafkaBrokers []string
	if brokers != "" {
		kafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	cfg := &Config{
		InputPath:       sharedcfg.EnvOrDefault("INPUT_PATH", "produce_csv.csv"),
		InputSheet:      os.Getenv("INPUT_SHEET"),
		ChartPath:       envOrDefaultAllowEmpty("CHART_PATH", "final-proj.png"),
		ChartWidth:      width,
		ChartHeight:     height,
		XLSXPath:        os.Getenv("XLSX_PATH"),
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    kafkaBrokers,
		KafkaSinkTopic:  sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "produce-price-charts"),
		PublishTimeout:  publishTimeout,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.ChartPath != "" {
		switch strings.ToLower(filepath.Ext(c.ChartPath)) {
		case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
		default:
			return fmt.Errorf("invalid CHART_PATH %q: unsupported image format", c.ChartPath)
		}
	}
	if c.XLSXPath != "" && !strings.EqualFold(filepath.Ext(c.XLSXPath), ".xlsx") {
		return fmt.Errorf("invalid XLSX_PATH %q: must end in .xlsx", c.XLSXPath)
	}
	return nil
}

// ParseLength parses a positive length such as "10in", "25cm", "180mm" or
// "720pt". A bare number is taken as inches.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	unit := pointsPerInch
	for suffix, scale := range map[string]float64{
		"in": pointsPerInch,
		"cm": pointsPerCM,
		"mm": pointsPerCM / 10,
		"pt": 1,
	} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			unit = scale
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("must be positive")
	}
	return Length(v * unit), nil
}

// envOrDefaultAllowEmpty distinguishes an unset variable (default applies)
// from one explicitly set to the empty string (feature disabled).
func envOrDefaultAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
