// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"

	"collegedir/forms"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	MongoURI               string
	MongoDatabase          string
	InstitutionsCollection string
	StoreTimeout           time.Duration
	StoreHealthInterval    time.Duration

	CORSOrigins []string

	RedisURL string
	CacheTTL time.Duration

	RabbitURI      string
	RabbitExchange string

	ShowcaseIDs []primitive.ObjectID
	Forms       []forms.Form
}

// fileConfig is the optional YAML file layout.
type fileConfig struct {
	Showcase struct {
		IDs []string `yaml:"ids"`
	} `yaml:"showcase"`
	Forms []forms.Form `yaml:"forms"`
}

// Load reads configuration from the environment and, when present, the YAML
// file named by CONFIG_FILE (default config.yaml). Environment values win
// over the file.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:                   getEnv("PORT", "3000"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
		MongoURI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:          getEnv("MONGO_DB", "shiksha_data"),
		InstitutionsCollection: getEnv("INSTITUTIONS_COLLECTION", "institutions"),
		CORSOrigins:            splitList(getEnv("CORS_ORIGINS", "*")),
		RedisURL:               os.Getenv("REDIS_URL"),
		RabbitURI:              os.Getenv("RABBITMQ_URI"),
		RabbitExchange:         getEnv("RABBITMQ_EXCHANGE", "leads"),
	}

	var err error
	if cfg.StoreTimeout, err = getDuration("STORE_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.StoreHealthInterval, err = getDuration("STORE_HEALTH_INTERVAL", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		errs = append(errs, err)
	}

	file, err := readFile(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		errs = append(errs, err)
	}

	showcase := file.Showcase.IDs
	if v, ok := os.LookupEnv("SHOWCASE_IDS"); ok {
		showcase = splitList(v)
	}
	if cfg.ShowcaseIDs, err = parseIDs(showcase); err != nil {
		errs = append(errs, err)
	}
	cfg.Forms = forms.Merge(forms.Defaults(), file.Forms)

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI must not be empty"))
	}
	if c.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGO_DB must not be empty"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	if c.RabbitURI != "" && c.RabbitExchange == "" {
		errs = append(errs, errors.New("RABBITMQ_EXCHANGE is required when RABBITMQ_URI is set"))
	}
	if _, err := forms.NewRegistry(c.Forms); err != nil {
		errs = append(errs, fmt.Errorf("forms: %w", err))
	}
	return errors.Join(errs...)
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	seen := make(map[primitive.ObjectID]bool, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("showcase id %q: %w", s, err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
