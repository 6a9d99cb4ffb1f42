package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type AppConfig struct {
	Env string `yaml:"env" env:"ENV" env-default:"prod"`

	BBDC struct {
		BaseURL     string        `yaml:"base_url" env:"BBDC_BASE_URL" env-default:"https://booking.bbdc.sg"`
		UserID      string        `yaml:"user_id" env:"BBDC_USER_ID" env-required:"true"`
		Password    string        `yaml:"password" env:"BBDC_PASSWORD" env-required:"true"`
		CourseType  string        `yaml:"course_type" env:"BBDC_COURSE_TYPE" env-default:"3A"`
		Attempts    int           `yaml:"attempts" env:"BBDC_ATTEMPTS" env-default:"10"`
		MonthsAhead int           `yaml:"months_ahead" env:"BBDC_MONTHS_AHEAD" env-default:"3"`
		PollEvery   time.Duration `yaml:"poll_every" env:"BBDC_POLL_EVERY" env-default:"5m"`
	} `yaml:"bbdc"`

	OCR struct {
		APIKey string `yaml:"api_key" env:"OCR_API_KEY" env-required:"true"`
	} `yaml:"ocr"`

	Telegram struct {
		ApiID         int32  `yaml:"api_id" env:"TELEGRAM_API_ID" env-required:"true"`
		ApiHash       string `yaml:"api_hash" env:"TELEGRAM_API_HASH" env-required:"true"`
		BotToken      string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
		SessionDir    string `yaml:"session_dir" env:"TELEGRAM_SESSION_DIR" env-default:".tdlib"`
		AllowedChatID int64  `yaml:"allowed_chat_id" env:"TELEGRAM_ALLOWED_CHAT_ID"`
	} `yaml:"telegram"`

	Redis struct {
		Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password string        `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
		SeenTTL  time.Duration `yaml:"seen_ttl" env:"REDIS_SEEN_TTL" env-default:"72h"`
	} `yaml:"redis"`
}

// Load reads settings from a config file when one is given, otherwise
// from environment variables.
func Load() (*AppConfig, error) {
	path := fetchConfigPath()
	if path != "" {
		return LoadPath(path)
	}

	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func LoadPath(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	if flag.Lookup("config") == nil {
		flag.StringVar(&res, "config", "", "path to config file")
		flag.Parse()
	}

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
