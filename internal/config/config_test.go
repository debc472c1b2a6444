package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "grades.db")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "America/New_York", cfg.Location.String())
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.FixAttendedSectional)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Zero(t, cfg.BaseAdminChatID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "grades.db")
	t.Setenv("BASE_ADMIN_CHAT_ID", "123456789")
	t.Setenv("CORS_ORIGINS", "https://glee.example.edu, http://localhost:3000,")
	t.Setenv("GRADES_TIMEZONE", "UTC")
	t.Setenv("FIX_ATTENDED_SECTIONAL", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), cfg.BaseAdminChatID)
	assert.Equal(t, []string{"https://glee.example.edu", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.True(t, cfg.FixAttendedSectional)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "grades.db")
	_, err := load()
	assert.EqualError(t, err, "missing required environment variable TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")
	_, err = load()
	assert.EqualError(t, err, "missing required environment variable DATABASE_URL")

	t.Setenv("DATABASE_URL", "grades.db")
	t.Setenv("GRADES_TIMEZONE", "Mars/Olympus")
	_, err = load()
	assert.Error(t, err)
}
