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
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
service_name = "delivery-service"
version = "1.0.0"

[http]
port = 8082

[delivery]
max_distance_km = 150.0
distance_cache_ttl_minutes = 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "delivery-service", cfg.ServiceName)
	assert.Equal(t, 8082, cfg.HTTP.Port)
	assert.Equal(t, 150.0, cfg.Delivery.MaxDistanceKm)
	assert.Equal(t, 10*time.Minute, cfg.Delivery.DistanceCacheTTL())
	// 未显式配置的字段取默认值
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `service_name = "cart-service"`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.Delivery.MaxDistanceKm)
	assert.Equal(t, 30*time.Minute, cfg.Delivery.DistanceCacheTTL())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("缺少服务名", func(t *testing.T) {
		path := writeConfig(t, `[http]
port = 8080`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("端口越界", func(t *testing.T) {
		path := writeConfig(t, `
service_name = "x"

[http]
port = 70000
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})
}
