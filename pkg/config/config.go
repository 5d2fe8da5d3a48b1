package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/mcod"
	ConfigFileName    = "mcod.yml"
)

// MCODConfig holds all portal configuration settings
type MCODConfig struct {
	// BaseURL is the public URL of the API, used to build links
	BaseURL string `yaml:"base_url" json:"base_url"`

	// APIPageSizeDefault is the page size used when a request does not ask for one
	APIPageSizeDefault int `yaml:"api_page_size_default" json:"api_page_size_default"`

	// APIPageSizeMax is the largest page size a request may ask for
	APIPageSizeMax int `yaml:"api_page_size_max" json:"api_page_size_max"`

	// JWTTokenTTL is the lifetime of issued user tokens in seconds
	JWTTokenTTL int `yaml:"jwt_token_ttl" json:"jwt_token_ttl"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// HarvesterEnabled starts the harvest scheduler together with the server
	HarvesterEnabled bool `yaml:"harvester_enabled" json:"harvester_enabled"`

	// HarvesterHTTPTimeout is the timeout of a single catalog request in seconds
	HarvesterHTTPTimeout int `yaml:"harvester_http_timeout" json:"harvester_http_timeout"`

	// LinkCheckerConcurrency is the number of links checked in parallel
	LinkCheckerConcurrency int `yaml:"link_checker_concurrency" json:"link_checker_concurrency"`

	// LinkCheckerTimeout is the timeout of a single link check in seconds
	LinkCheckerTimeout int `yaml:"link_checker_timeout" json:"link_checker_timeout"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" json:"trust_proxy_headers"`

	// harvesterEnabledSet is true when the file explicitly set harvester_enabled
	harvesterEnabledSet bool

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// NewDefault returns a config with default values
func NewDefault() *MCODConfig {
	return &MCODConfig{
		BaseURL:                "http://localhost:8000",
		APIPageSizeDefault:     20,
		APIPageSizeMax:         100,
		JWTTokenTTL:            86400,
		CORSAllowedOrigins:     []string{},
		HarvesterEnabled:       true,
		HarvesterHTTPTimeout:   60,
		LinkCheckerConcurrency: 8,
		LinkCheckerTimeout:     15,
		LogLevel:               "info",
		sources:                make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*MCODConfig, error) {
	config := NewDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("MCOD_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig MCODConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err == nil {
			_, fileConfig.harvesterEnabledSet = raw["harvester_enabled"]
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"base_url", "api_page_size_default", "api_page_size_max",
		"jwt_token_ttl", "cors_allowed_origins", "harvester_enabled",
		"harvester_http_timeout", "link_checker_concurrency",
		"link_checker_timeout", "log_level", "trust_proxy_headers",
	}
}

func (c *MCODConfig) applyFileConfig(file *MCODConfig) {
	if file.BaseURL != "" {
		c.BaseURL = strings.TrimRight(file.BaseURL, "/")
		c.sources["base_url"] = "file"
	}
	if file.APIPageSizeDefault != 0 {
		c.APIPageSizeDefault = file.APIPageSizeDefault
		c.sources["api_page_size_default"] = "file"
	}
	if file.APIPageSizeMax != 0 {
		c.APIPageSizeMax = file.APIPageSizeMax
		c.sources["api_page_size_max"] = "file"
	}
	if file.JWTTokenTTL != 0 {
		c.JWTTokenTTL = file.JWTTokenTTL
		c.sources["jwt_token_ttl"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if file.harvesterEnabledSet {
		c.HarvesterEnabled = file.HarvesterEnabled
		c.sources["harvester_enabled"] = "file"
	}
	if file.HarvesterHTTPTimeout != 0 {
		c.HarvesterHTTPTimeout = file.HarvesterHTTPTimeout
		c.sources["harvester_http_timeout"] = "file"
	}
	if file.LinkCheckerConcurrency != 0 {
		c.LinkCheckerConcurrency = file.LinkCheckerConcurrency
		c.sources["link_checker_concurrency"] = "file"
	}
	if file.LinkCheckerTimeout != 0 {
		c.LinkCheckerTimeout = file.LinkCheckerTimeout
		c.sources["link_checker_timeout"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.TrustProxyHeaders {
		c.TrustProxyHeaders = true
		c.sources["trust_proxy_headers"] = "file"
	}
}

func (c *MCODConfig) applyEnvConfig() {
	if val := os.Getenv("MCOD_BASE_URL"); val != "" {
		c.BaseURL = strings.TrimRight(val, "/")
		c.sources["base_url"] = "environment"
	}
	c.applyEnvInt("MCOD_API_PAGE_SIZE_DEFAULT", "api_page_size_default", &c.APIPageSizeDefault)
	c.applyEnvInt("MCOD_API_PAGE_SIZE_MAX", "api_page_size_max", &c.APIPageSizeMax)
	c.applyEnvInt("MCOD_JWT_TOKEN_TTL", "jwt_token_ttl", &c.JWTTokenTTL)
	if val := os.Getenv("MCOD_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	if val := os.Getenv("MCOD_HARVESTER_ENABLED"); val != "" {
		c.HarvesterEnabled = val == "true" || val == "1"
		c.sources["harvester_enabled"] = "environment"
	}
	c.applyEnvInt("MCOD_HARVESTER_HTTP_TIMEOUT", "harvester_http_timeout", &c.HarvesterHTTPTimeout)
	c.applyEnvInt("MCOD_LINK_CHECKER_CONCURRENCY", "link_checker_concurrency", &c.LinkCheckerConcurrency)
	c.applyEnvInt("MCOD_LINK_CHECKER_TIMEOUT", "link_checker_timeout", &c.LinkCheckerTimeout)
	if val := os.Getenv("MCOD_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("MCOD_TRUST_PROXY_HEADERS"); val != "" {
		c.TrustProxyHeaders = val == "true" || val == "1"
		c.sources["trust_proxy_headers"] = "environment"
	}
}

func (c *MCODConfig) applyEnvInt(env, name string, dst *int) {
	val := os.Getenv(env)
	if val == "" {
		return
	}
	if i, err := strconv.Atoi(val); err == nil {
		*dst = i
		c.sources[name] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *MCODConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *MCODConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTL returns the user token TTL as a duration
func (c *MCODConfig) TokenTTL() time.Duration {
	return time.Duration(c.JWTTokenTTL) * time.Second
}

// HarvesterTimeout returns the catalog request timeout as a duration
func (c *MCODConfig) HarvesterTimeout() time.Duration {
	return time.Duration(c.HarvesterHTTPTimeout) * time.Second
}

// LinkCheckTimeout returns the link check timeout as a duration
func (c *MCODConfig) LinkCheckTimeout() time.Duration {
	return time.Duration(c.LinkCheckerTimeout) * time.Second
}

// JWTSecret returns the token signing secret. It is only read from the environment.
func (c *MCODConfig) JWTSecret() string {
	return os.Getenv("MCOD_JWT_SECRET")
}

// Validate validates the configuration
func (c *MCODConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url value: %s", c.BaseURL)
	}
	if c.APIPageSizeMax <= 0 {
		return fmt.Errorf("api_page_size_max must be positive, got %d", c.APIPageSizeMax)
	}
	if c.APIPageSizeDefault <= 0 || c.APIPageSizeDefault > c.APIPageSizeMax {
		return fmt.Errorf("api_page_size_default must be between 1 and %d, got %d", c.APIPageSizeMax, c.APIPageSizeDefault)
	}
	if c.JWTTokenTTL <= 0 {
		return fmt.Errorf("jwt_token_ttl must be positive, got %d", c.JWTTokenTTL)
	}
	if c.LinkCheckerConcurrency <= 0 {
		return fmt.Errorf("link_checker_concurrency must be positive, got %d", c.LinkCheckerConcurrency)
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level value: %s", c.LogLevel)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *MCODConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "base_url", Value: c.BaseURL, Source: c.Source("base_url")},
		{Name: "api_page_size_default", Value: strconv.Itoa(c.APIPageSizeDefault), Source: c.Source("api_page_size_default")},
		{Name: "api_page_size_max", Value: strconv.Itoa(c.APIPageSizeMax), Source: c.Source("api_page_size_max")},
		{Name: "jwt_token_ttl", Value: strconv.Itoa(c.JWTTokenTTL), Source: c.Source("jwt_token_ttl")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "harvester_enabled", Value: strconv.FormatBool(c.HarvesterEnabled), Source: c.Source("harvester_enabled")},
		{Name: "harvester_http_timeout", Value: strconv.Itoa(c.HarvesterHTTPTimeout), Source: c.Source("harvester_http_timeout")},
		{Name: "link_checker_concurrency", Value: strconv.Itoa(c.LinkCheckerConcurrency), Source: c.Source("link_checker_concurrency")},
		{Name: "link_checker_timeout", Value: strconv.Itoa(c.LinkCheckerTimeout), Source: c.Source("link_checker_timeout")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "trust_proxy_headers", Value: strconv.FormatBool(c.TrustProxyHeaders), Source: c.Source("trust_proxy_headers")},
	}
}

// FormatText returns a text representation of the configuration
func (c *MCODConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *MCODConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
