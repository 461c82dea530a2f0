package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, "info", c.Logger.Level)
	assert.Equal(t, "csv", c.Rates.Source)
	assert.Equal(t, "none", c.Cache.Backend)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
	assert.Equal(t, "mortgage.quotes", c.Kafka.Topic)
	assert.Equal(t, "mortgage_rates", c.ClickHouseTable())
	assert.Equal(t, 10000, c.RateLimit.MaxClients)
	assert.False(t, c.RateLimit.TrustKeyHeader)
}

func TestParseFullSections(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
server:
  port: 9090
  cors_origins: ["https://app.example.com"]
  trusted_proxies: ["10.0.0.0/8"]
rates:
  source: clickhouse
cache:
  backend: redis
  ttl: 30s
  redis:
    addr: redis:6379
ratelimit:
  enabled: true
  rps: 2.5
  burst: 5
  key_header: X-Client-Id
  trust_key_header: true
  max_clients: 500
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  producer:
    linger: 20ms
clickhouse:
  host: ch
  database: mc
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, c.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, c.Cache.TTL)
	assert.Equal(t, 2.5, c.RateLimit.RPS)
	assert.True(t, c.RateLimit.TrustKeyHeader)
	assert.Equal(t, 500, c.RateLimit.MaxClients)
	nets, err := c.TrustedProxyNets()
	require.NoError(t, err)
	require.Len(t, nets, 1)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())
	assert.Equal(t, 20*time.Millisecond, c.Kafka.Producer.Linger)
	assert.Equal(t, "mc.mortgage_rates", c.ClickHouseTable())
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]string{
		"missing env":          `server: {port: 80}`,
		"bad source":           "environment: x\nrates: {source: s3}",
		"clickhouse host":      "environment: x\nrates: {source: clickhouse}",
		"bad cache":            "environment: x\ncache: {backend: memcached}",
		"redis addr":           "environment: x\ncache: {backend: redis}",
		"ratelimit zero":       "environment: x\nratelimit: {enabled: true}",
		"kafka without broker": "environment: x\nkafka: {enabled: true}",
		"port range":           "environment: x\nserver: {port: 70000}",
		"bad proxy cidr":       "environment: x\nserver: {trusted_proxies: [\"10.0.0.1\"]}",
		"trusted empty header": "environment: x\nratelimit: {enabled: true, rps: 1, burst: 1, trust_key_header: true}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	env := map[string]string{
		"APP_ENV":       "staging",
		"SERVER_PORT":   "9000",
		"LOG_LEVEL":     "debug",
		"RATES_DIR":     "/srv/rates",
		"CACHE_BACKEND": "memory",
		"KAFKA_BROKERS": "a:9092,b:9092",
		"KAFKA_TOPIC":   "quotes.v2",
	}
	require.NoError(t, c.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, "debug", c.Logger.Level)
	assert.Equal(t, "/srv/rates", c.Rates.Dir)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "quotes.v2", c.Kafka.Topic)
}

func TestApplyEnvBadPort(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)
	err = c.ApplyEnv(func(k string) string {
		if k == "SERVER_PORT" {
			return "http"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))
	t.Setenv("CACHE_BACKEND", "memory")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Cache.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestShippedConfigParses(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", c.Environment)
	assert.True(t, c.RateLimit.Enabled)
}
