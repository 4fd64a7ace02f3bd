package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"outreach-api/core/errors"
	"outreach-api/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	IMAP     IMAPConfig     `mapstructure:"imap"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Company  CompanyConfig  `mapstructure:"company"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CalendarConfig is the working-calendar booking policy plus the
// service-account credentials used against the Google Calendar API.
type CalendarConfig struct {
	ID                  string            `mapstructure:"id"`
	Timezone            string            `mapstructure:"timezone"`
	WorkingDays         []int             `mapstructure:"working_days"` // ISO weekdays, 1=Mon .. 7=Sun
	WorkingHours        WorkingHoursRange `mapstructure:"working_hours"`
	SlotDurationMinutes int               `mapstructure:"slot_duration_minutes"`
	ServiceAccount      ServiceAccount    `mapstructure:"service_account"`
}

type WorkingHoursRange struct {
	Start string `mapstructure:"start"` // "09:00"
	End   string `mapstructure:"end"`   // "17:00"
}

type ServiceAccount struct {
	ClientEmail string `mapstructure:"client_email"`
	PrivateKey  string `mapstructure:"private_key"`
	TokenURI    string `mapstructure:"token_uri"`
}

type IMAPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	SentMailbox string `mapstructure:"sent_mailbox"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type CompanyConfig struct {
	Name      string   `mapstructure:"name"`
	Signature string   `mapstructure:"signature"`
	CTA       string   `mapstructure:"cta"`
	Services  []string `mapstructure:"services"`
	USP       []string `mapstructure:"usp"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads config.yaml plus environment overrides and validates the result.
// Must be called once at startup before Get/GetSafe.
func Load() (*Config, error) {
	// .env is optional, used in local development
	if err := godotenv.Load(); err == nil {
		logger.Info("Config:Load:DotEnvLoaded")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewAppError(errors.ErrInvalidConfig, "failed to read config file", err)
		}
		logger.Warn("Config:Load:NoConfigFile", "hint", "using environment variables only")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidConfig, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	logger.Info("Config:Load:Success",
		"server_port", cfg.Server.Port,
		"calendar_id", cfg.Calendar.ID,
		"timezone", cfg.Calendar.Timezone,
		"slot_minutes", cfg.Calendar.SlotDurationMinutes,
	)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("calendar.timezone", "UTC")
	v.SetDefault("calendar.working_days", []int{1, 2, 3, 4, 5})
	v.SetDefault("calendar.working_hours.start", "09:00")
	v.SetDefault("calendar.working_hours.end", "17:00")
	v.SetDefault("calendar.slot_duration_minutes", 30)
	v.SetDefault("calendar.service_account.token_uri", "https://oauth2.googleapis.com/token")
	v.SetDefault("imap.host", "imap.gmail.com")
	v.SetDefault("imap.port", 993)
	v.SetDefault("imap.sent_mailbox", "[Gmail]/Sent Mail")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.use_tls", true)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 600)
}

// Validate enforces the booking-policy invariants. A missing calendar id is
// fatal at startup, not per-request recoverable.
func (c *Config) Validate() error {
	if c.Calendar.ID == "" {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.id must be configured", nil)
	}

	start, err := parseTimeOfDay(c.Calendar.WorkingHours.Start)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.working_hours.start is malformed", err)
	}
	end, err := parseTimeOfDay(c.Calendar.WorkingHours.End)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.working_hours.end is malformed", err)
	}
	if end <= start {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.working_hours.end must be after start", nil)
	}

	slot := time.Duration(c.Calendar.SlotDurationMinutes) * time.Minute
	if slot <= 0 {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.slot_duration_minutes must be positive", nil)
	}
	if slot > end-start {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.slot_duration_minutes exceeds the working window", nil)
	}

	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return errors.NewAppError(errors.ErrInvalidConfig, "calendar.timezone is not a valid IANA zone", err)
	}

	for _, d := range c.Calendar.WorkingDays {
		if d < 1 || d > 7 {
			return errors.NewAppError(errors.ErrInvalidConfig, fmt.Sprintf("calendar.working_days contains invalid ISO weekday %d", d), nil)
		}
	}

	return nil
}

// Location resolves the configured timezone. Validate guarantees it loads.
func (c CalendarConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorkingWindow returns the working-hours range as offsets from midnight.
func (c CalendarConfig) WorkingWindow() (start, end time.Duration) {
	start, _ = parseTimeOfDay(c.WorkingHours.Start)
	end, _ = parseTimeOfDay(c.WorkingHours.End)
	return start, end
}

// IsWorkingDay reports whether the weekday is in the configured working set.
func (c CalendarConfig) IsWorkingDay(d time.Weekday) bool {
	iso := int(d)
	if iso == 0 {
		iso = 7 // time.Sunday is 0, ISO Sunday is 7
	}
	for _, wd := range c.WorkingDays {
		if wd == iso {
			return true
		}
	}
	return false
}

// SlotDuration returns the configured slot granularity.
func (c CalendarConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMinutes) * time.Minute
}

func parseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day out of range: %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// Get returns the loaded config. Panics if Load was never called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the loaded config and whether it is initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
