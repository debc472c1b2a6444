package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken   string
	BaseAdminChatID int64
	DatabaseURL     string
	BotDebug        bool

	HTTPAddr    string
	CORSOrigins []string

	Location             *time.Location
	FixAttendedSectional bool
	EventsFile           string
	LogLevel             logrus.Level
}

var instance *BotConfig
var once sync.Once

func GetBotConfig() *BotConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		cfg, err := load()
		if err != nil {
			logrus.Fatal(err)
		}
		instance = cfg
	})

	return instance
}

func load() (*BotConfig, error) {
	cfg := &BotConfig{}

	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if cfg.TelegramToken == "" {
		return nil, errMissing("TELEGRAM_BOT_TOKEN")
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		return nil, errMissing("DATABASE_URL")
	}

	cfg.BaseAdminChatID = getEnvAsInt("BASE_ADMIN_CHAT_ID", 0)
	cfg.BotDebug = getEnvAsBool("BOT_DEBUG", false)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.CORSOrigins = getEnvAsList("CORS_ORIGINS")
	cfg.FixAttendedSectional = getEnvAsBool("FIX_ATTENDED_SECTIONAL", false)
	cfg.EventsFile = getEnv("EVENTS_FILE", "")

	loc, err := time.LoadLocation(getEnv("GRADES_TIMEZONE", "America/New_York"))
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

type errMissing string

func (e errMissing) Error() string {
	return "missing required environment variable " + string(e)
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsList(name string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(name, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
