package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is the desktop identity every browser page and HTTP request presents
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Safari/605.1.15"

// Config represents the application configuration
type Config struct {
	Scraper struct {
		Engine            string        `yaml:"engine" validate:"oneof=headed static"`
		UserAgent         string        `yaml:"user_agent" validate:"required"`
		NavigationTimeout time.Duration `yaml:"navigation_timeout" validate:"gt=0"`
		RequestTimeout    time.Duration `yaml:"request_timeout" validate:"gt=0"`
		PacingDelay       time.Duration `yaml:"pacing_delay" validate:"gte=0"`
		Sites             []string      `yaml:"sites" validate:"min=1,dive,required"`
		Titles            []string      `yaml:"titles" validate:"min=1,dive,required"`
	} `yaml:"scraper"`

	Browser struct {
		Bin          string `yaml:"bin"`
		HeadlessMode bool   `yaml:"headless_mode"`
		NoSandbox    bool   `yaml:"no_sandbox"`
	} `yaml:"browser"`

	HTTP struct {
		Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
		RateLimit int           `yaml:"rate_limit" validate:"gte=0"` // requests per minute per host, 0 disables
		ProxyURL  string        `yaml:"proxy_url" validate:"omitempty,url"`
	} `yaml:"http"`

	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl" validate:"gte=0"`
	} `yaml:"cache"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" validate:"gte=0"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"redis"`

	Logging struct {
		Level     string `yaml:"level" validate:"oneof=debug info warn warning error fatal"`
		Format    string `yaml:"format" validate:"oneof=json text"`
		Output    string `yaml:"output" validate:"oneof=stderr stdout"`
		Colorized bool   `yaml:"colorized"`
	} `yaml:"logging"`
}

var (
	bracedVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands ${VAR} and $VAR, leaving unknown variables untouched
func expandEnvVars(s string) string {
	s = bracedVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	config := &Config{}

	config.Scraper.Engine = "headed"
	config.Scraper.UserAgent = DefaultUserAgent
	config.Scraper.NavigationTimeout = 45 * time.Second
	config.Scraper.RequestTimeout = 20 * time.Second
	config.Scraper.PacingDelay = 5 * time.Second
	config.Scraper.Sites = []string{"indeed", "trademe", "seek", "jora"}
	config.Scraper.Titles = []string{
		"software engineer",
		"data analyst",
		"project manager",
		"registered nurse",
		"accountant",
	}

	config.Browser.HeadlessMode = true
	config.Browser.NoSandbox = true

	config.HTTP.Timeout = 30 * time.Second
	config.HTTP.RateLimit = 30

	config.Cache.TTL = 10 * time.Minute

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "text"
	config.Logging.Output = "stderr"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Cache.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("invalid configuration: cache enabled without redis url")
	}
	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if engine := os.Getenv("JOBEX_ENGINE"); engine != "" {
		c.Scraper.Engine = engine
	}

	if userAgent := os.Getenv("JOBEX_USER_AGENT"); userAgent != "" {
		c.Scraper.UserAgent = userAgent
	}

	if sites := os.Getenv("JOBEX_SITES"); sites != "" {
		c.Scraper.Sites = splitList(sites)
	}

	if titles := os.Getenv("JOBEX_TITLES"); titles != "" {
		c.Scraper.Titles = splitList(titles)
	}

	if delay := os.Getenv("JOBEX_PACING_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Scraper.PacingDelay = d
		}
	}

	if timeout := os.Getenv("JOBEX_NAVIGATION_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Scraper.NavigationTimeout = d
		}
	}

	if timeout := os.Getenv("JOBEX_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Scraper.RequestTimeout = d
		}
	}

	// Same variables the Docker images use
	if chromeBin := os.Getenv("CHROME_BIN"); chromeBin != "" {
		c.Browser.Bin = chromeBin
	}

	if headless := os.Getenv("JOBEX_HEADLESS"); headless != "" {
		c.Browser.HeadlessMode = headless == "true" || headless == "1"
	}

	if proxy := os.Getenv("JOBEX_PROXY_URL"); proxy != "" {
		c.HTTP.ProxyURL = proxy
	}

	if rateLimit := os.Getenv("JOBEX_RATE_LIMIT"); rateLimit != "" {
		if n, err := strconv.Atoi(rateLimit); err == nil {
			c.HTTP.RateLimit = n
		}
	}

	if cacheEnabled := os.Getenv("CACHE_ENABLED"); cacheEnabled != "" {
		c.Cache.Enabled = cacheEnabled == "true" || cacheEnabled == "1"
	}

	if cacheTTL := os.Getenv("CACHE_TTL"); cacheTTL != "" {
		if d, err := time.ParseDuration(cacheTTL); err == nil {
			c.Cache.TTL = d
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = strings.ToLower(logLevel)
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = strings.ToLower(logFormat)
	}
}

// splitList splits a comma separated value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
