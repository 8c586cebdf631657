package endpoint

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// APIPrefix is prepended to every resource path.
const APIPrefix = "/api/v1"

// ResourceAuthentication is the routing key for the authentication endpoints.
const ResourceAuthentication = "authentication"

// Config holds the base URLs the client talks to.
type Config struct {
	// BaseURL serves every resource without an entry in Routes.
	BaseURL string `yaml:"base_url"`

	// Routes maps a resource path (e.g. "events") to its own base URL.
	Routes map[string]string `yaml:"routes"`

	// Timeout for a single request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig reads the configuration from environment variables.
//
// API_URL (or VITE_API_URL) sets the base URL. When SERVICES_API_URL is set,
// events, tasks and notes are routed to it while calendars, categories and
// authentication stay on the base URL.
func DefaultConfig() Config {
	cfg := Config{
		BaseURL: getEnv("API_URL", getEnv("VITE_API_URL", DefaultBaseURL)),
		Routes:  map[string]string{},
	}
	if services := getEnv("SERVICES_API_URL", ""); services != "" {
		cfg.Routes = SplitRoutes(services)
	}
	return cfg
}

// SplitRoutes routes the dependent entity resources to servicesURL.
func SplitRoutes(servicesURL string) map[string]string {
	return map[string]string{
		models.ResourceEvents: servicesURL,
		models.ResourceTasks:  servicesURL,
		models.ResourceNotes:  servicesURL,
	}
}

// LoadConfig reads a YAML routing file on top of the environment defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading endpoint config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parsing endpoint config: %w", err)
	}

	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.Timeout > 0 {
		cfg.Timeout = file.Timeout
	}
	for resource, url := range file.Routes {
		cfg.Routes[resource] = url
	}

	return cfg, nil
}

// BaseURLFor returns the base URL serving resource.
func (c Config) BaseURLFor(resource string) string {
	base := c.BaseURL
	if url, ok := c.Routes[resource]; ok && url != "" {
		base = url
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// getEnv returns an environment variable value or a default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
