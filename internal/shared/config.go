package shared

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"contoso_hotel/internal/domain"
)

// DSNSecretName is both the secrets-store file name and the fallback env var.
const DSNSecretName = "MYSQL_CONNECTION_STRING"

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	InstallRoot string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	WriteRPS    int
}

// Load reads an optional .env file and then the environment. It runs before the
// logger is configured, so it does not log; a malformed .env is returned as an
// error next to a Config built from the environment alone.
func Load() (Config, error) {
	var envErr error
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		envErr = domain.Configuration(".env could not be parsed: " + err.Error())
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		InstallRoot: env("INSTALL_ROOT", defaultInstallRoot()),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		WriteRPS:    atoi("WRITE_RPS", 20),
	}
	return c, envErr
}

// ResolveDSN returns the connection string from <installRoot>/secrets-store,
// falling back to the environment.
func ResolveDSN(installRoot string) (string, error) {
	file := filepath.Join(installRoot, "secrets-store", DSNSecretName)
	if b, err := os.ReadFile(file); err == nil {
		if dsn := strings.TrimSpace(string(b)); dsn != "" {
			log.Debug().Str("file", file).Msg("connection string read from secrets store")
			return dsn, nil
		}
	}
	if dsn := strings.TrimSpace(os.Getenv(DSNSecretName)); dsn != "" {
		return dsn, nil
	}
	return "", domain.Configuration("connection string is empty")
}

// defaultInstallRoot is the parent of the directory holding the executable.
func defaultInstallRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
