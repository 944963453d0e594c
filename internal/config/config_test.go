package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 8080
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: app
  password: secret
  name: gamechanger
  sslMode: require
minio:
  endpoint: minio.internal:9000
  accessKey: ak
  secretKey: sk
  bucketName: recordings
  region: us-east-1
  useSSL: true
openai:
  apiKey: sk-test
  model: gpt-4-turbo
  transcribeModel: whisper-1
auth:
  jwtSecret: hs256-secret
  issuer: gamechanger
workers:
  count: 8
  queueSize: 128
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, "recordings", cfg.Minio.BucketName)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, "whisper-1", cfg.OpenAI.TranscribeModel)
	assert.Equal(t, "gamechanger", cfg.Auth.Issuer)
	assert.Equal(t, 8, cfg.Workers.Count)
	assert.Equal(t, 128, cfg.Workers.QueueSize)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 4, cfg.Workers.Count)
	assert.Equal(t, 64, cfg.Workers.QueueSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unbalanced"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t,
		"app:secret@tcp(db.internal:5432)/gamechanger?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
}

func TestPostgresDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=gamechanger sslmode=require",
		cfg.PostgresDSN())
}
