package eisenhower

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	Namespace      string
	LogLevel       string
	LogPath        string
	DateFormat     string
	StorageTimeout time.Duration
	DevMode        bool
}

const (
	KeyDatabaseURL    = "EISENHOWER_DB_URL"
	KeyNamespace      = "EISENHOWER_NAMESPACE"
	KeyLogLevel       = "EISENHOWER_LOG_LEVEL"
	KeyLogPath        = "EISENHOWER_LOG_PATH"
	KeyDateFormat     = "EISENHOWER_DATE_FORMAT"
	KeyStorageTimeout = "EISENHOWER_STORAGE_TIMEOUT"
	KeyDevMode        = "EISENHOWER_DEV_MODE"

	DefaultNamespace  = "eisenhower"
	DefaultLogLevel   = "WARN"
	DefaultDateFormat = "02/01/2006"
)

var (
	userHome, _        = os.UserHomeDir()
	DefaultDatabaseURL = path.Join(userHome, ".eisenhower", "eisenhower.db")
	DefaultLogPath     = path.Join(userHome, ".eisenhower", "eisenhower.log")
)

// DefaultConfFile is where LoadConfig looks when no file is given.
func DefaultConfFile() string {
	cfgDir, _ := os.UserConfigDir()
	return path.Join(cfgDir, "eisenhower", "eisenhower.conf")
}

// LoadConfig merges, in order of precedence, the environment, the dotenv
// file at confFile and the defaults. A missing confFile is created with the
// defaults.
func LoadConfig(confFile string) (Config, error) {
	fromEnv := map[string]string{}
	for _, k := range []string{KeyDatabaseURL, KeyNamespace, KeyLogLevel, KeyLogPath, KeyDateFormat, KeyStorageTimeout, KeyDevMode} {
		fromEnv[k] = os.Getenv(k)
	}

	if _, err := os.Stat(confFile); errors.Is(err, os.ErrNotExist) {
		if err := writeDefaultConf(confFile); err != nil {
			return Config{}, err
		}
	}
	fromFile, err := godotenv.Read(confFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", confFile, err)
	}

	get := func(k, def string) string {
		return coalesce(fromEnv[k], fromFile[k], def)
	}

	conf := Config{
		DatabaseURL: get(KeyDatabaseURL, DefaultDatabaseURL),
		Namespace:   get(KeyNamespace, DefaultNamespace),
		LogLevel:    get(KeyLogLevel, DefaultLogLevel),
		LogPath:     get(KeyLogPath, DefaultLogPath),
		DateFormat:  get(KeyDateFormat, DefaultDateFormat),
		DevMode:     get(KeyDevMode, "") != "",
	}
	conf.StorageTimeout, err = time.ParseDuration(get(KeyStorageTimeout, DefaultStorageTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", KeyStorageTimeout, err)
	}

	if conf.DevMode {
		conf.LogLevel = "DEBUG"
		conf.DatabaseURL = path.Join(os.TempDir(), "eisenhower-dev.db")
		conf.LogPath = path.Join(os.TempDir(), "eisenhower-dev.log")
	}
	return conf, nil
}

// IsRedisURL reports whether url selects the redis backend.
func (c Config) IsRedisURL() bool {
	return strings.HasPrefix(c.DatabaseURL, "redis://") || strings.HasPrefix(c.DatabaseURL, "rediss://")
}

func writeDefaultConf(confFile string) error {
	if err := os.MkdirAll(path.Dir(confFile), 0o755); err != nil {
		return err
	}
	return godotenv.Write(map[string]string{
		KeyDatabaseURL:    DefaultDatabaseURL,
		KeyNamespace:      DefaultNamespace,
		KeyLogLevel:       DefaultLogLevel,
		KeyLogPath:        DefaultLogPath,
		KeyDateFormat:     DefaultDateFormat,
		KeyStorageTimeout: DefaultStorageTimeout.String(),
	}, confFile)
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
