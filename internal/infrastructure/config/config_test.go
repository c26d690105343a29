package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_DefaultsAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  host: db
  port: 3306
  user: mall
  password: from-file
  dbname: mall
  loc: Asia/Shanghai
jwt:
  secret: s
`)
	t.Setenv("MALL_DATABASE_PASSWORD", "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 3, cfg.Database.TxMaxRetries)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "mall.events", cfg.MQ.Exchange)
	assert.Equal(t,
		"mall:from-env@tcp(db:3306)/mall?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		cfg.Database.DSN())
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口越界", "server:\n  port: 70000\n"},
		{"生产环境默认密钥", "server:\n  mode: release\njwt:\n  secret: your-secret-key-change-in-production\n"},
		{"重试次数为0", "database:\n  tx_max_retries: 0\n"},
		{"启用mq但无url", "mq:\n  enabled: true\n  url: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
