package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "MYSQL_DSN", "REDIS_DB", "AUTH_RATE_LIMIT", "RESET_DB", "ADMIN_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.MySQLDSN, "collation=utf8mb4_bin")
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
	assert.False(t, cfg.ResetDB)
	assert.Equal(t, "Administrator", cfg.AdminName)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/loans.db")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")
	t.Setenv("RESET_DB", "true")
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/loans.db", cfg.SQLitePath)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2.5, cfg.AuthRateLimit)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RESET_DB", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.ResetDB)
}
