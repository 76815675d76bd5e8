package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"dao_voting/sdk"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

const (
	// DatabaseSchemePostgres is the postgres database scheme identifier
	DatabaseSchemePostgres = "postgres"
	// DatabaseSchemeSQLite points at a local sqlite file
	DatabaseSchemeSQLite = "sqlite"
	// DatabaseSchemeLevelDB points at a goleveldb directory
	DatabaseSchemeLevelDB = "leveldb"

	// DefaultRewardAmount is 10 whole tokens at 6 decimals.
	DefaultRewardAmount uint64 = 10_000_000
	// DefaultTokenDecimals matches DefaultRewardAmount.
	DefaultTokenDecimals uint8 = 6
	// DefaultProgramName seeds the governance program id when none is configured.
	DefaultProgramName = "dao_voting"
)

type Config struct {
	DatabaseURL           string `yaml:"database_url"`
	StateFile             string `yaml:"state_file"` // memory store snapshot, used when DatabaseURL is empty
	ListenAddr            string `yaml:"listen_addr"`
	ProgramID             string `yaml:"program_id"` // base58; empty derives from DefaultProgramName
	RewardAmount          uint64 `yaml:"reward_amount"`
	TokenDecimals         uint8  `yaml:"token_decimals"`
	RequireCreatorToClose bool   `yaml:"require_creator_to_close"`
	KeyFile               string `yaml:"key_file"`
	LogLevel              string `yaml:"log_level"`
	LogFormat             string `yaml:"log_format"` // json or console
	Debug                 bool   `yaml:"debug"`

	DBDialect string `yaml:"-"`
	DBDsn     string `yaml:"-"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		ListenAddr:            ":8080",
		RewardAmount:          DefaultRewardAmount,
		TokenDecimals:         DefaultTokenDecimals,
		RequireCreatorToClose: true,
		KeyFile:               "daovote-key.json",
		LogLevel:              "info",
		LogFormat:             "console",
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load layers defaults, the optional YAML file at path, a .env file in the
// working directory and finally the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	// Try to load .env from CWD if present; otherwise use environment as-is
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.resolveDatabase(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DatabaseURL = strings.TrimSpace(getenv("DATABASE_URL", c.DatabaseURL))
	c.StateFile = getenv("STATE_FILE", c.StateFile)
	c.ListenAddr = getenv("LISTEN_ADDR", c.ListenAddr)
	c.ProgramID = getenv("PROGRAM_ID", c.ProgramID)
	c.KeyFile = getenv("KEY_FILE", c.KeyFile)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("REWARD_AMOUNT"); v != "" {
		n, err := cast.ToUint64E(v)
		if err != nil {
			return errors.Wrap(err, "REWARD_AMOUNT")
		}
		c.RewardAmount = n
	}
	if v := os.Getenv("TOKEN_DECIMALS"); v != "" {
		n, err := cast.ToUint8E(v)
		if err != nil {
			return errors.Wrap(err, "TOKEN_DECIMALS")
		}
		c.TokenDecimals = n
	}
	if v := os.Getenv("REQUIRE_CREATOR_TO_CLOSE"); v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return errors.Wrap(err, "REQUIRE_CREATOR_TO_CLOSE")
		}
		c.RequireCreatorToClose = b
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = cast.ToBool(v)
	}
	if c.RewardAmount == 0 {
		return errors.New("reward amount must be positive")
	}
	return nil
}

func (c *Config) resolveDatabase() error {
	c.DBDialect, c.DBDsn = "", ""
	if c.DatabaseURL == "" {
		return nil
	}
	dialect, dsn, err := parseDatabaseURL(c.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "DATABASE_URL")
	}
	c.DBDialect, c.DBDsn = dialect, dsn
	return nil
}

// parseDatabaseURL interprets DATABASE_URL and returns (dialect, dsn).
// Supported schemes: postgres, postgresql, sqlite, leveldb.
func parseDatabaseURL(databaseURL string) (string, string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case DatabaseSchemePostgres, "postgresql":
		// GORM postgres driver accepts URL DSN as-is
		return DatabaseSchemePostgres, databaseURL, nil
	case DatabaseSchemeSQLite, DatabaseSchemeLevelDB:
		path := strings.TrimPrefix(databaseURL, u.Scheme+"://")
		if path == "" {
			return "", "", fmt.Errorf("%s url needs a path", scheme)
		}
		return scheme, path, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %s", u.Scheme)
	}
}

// SetDatabaseURL overrides DATABASE_URL after loading, e.g. from a flag.
func (c *Config) SetDatabaseURL(databaseURL string) error {
	c.DatabaseURL = strings.TrimSpace(databaseURL)
	return c.resolveDatabase()
}

// ProgramAddress returns the configured program id, or the id derived from
// DefaultProgramName when none is set.
func (c Config) ProgramAddress() (sdk.Address, error) {
	if strings.TrimSpace(c.ProgramID) == "" {
		return sdk.NewProgramID(DefaultProgramName), nil
	}
	addr, err := sdk.AddressFromString(strings.TrimSpace(c.ProgramID))
	if err != nil {
		return sdk.ZeroAddress, errors.Wrap(err, "PROGRAM_ID")
	}
	return addr, nil
}

func (c Config) String() string {
	db := c.DBDialect
	if db == "" {
		db = "memory"
	}
	return fmt.Sprintf("listen=%s db=%s reward=%d", c.ListenAddr, db, c.RewardAmount)
}

// DebugString returns a human-friendly configuration string with masked secrets.
func (c Config) DebugString() string {
	return fmt.Sprintf(
		"listen=%s db=%s dsn=%s state_file=%s program=%s reward=%d decimals=%d creator_close=%t",
		c.ListenAddr,
		c.DBDialect,
		maskDSN(c.DBDialect, c.DBDsn),
		c.StateFile,
		c.ProgramID,
		c.RewardAmount,
		c.TokenDecimals,
		c.RequireCreatorToClose,
	)
}

func maskDSN(dialect, dsn string) string {
	switch strings.ToLower(dialect) {
	case DatabaseSchemePostgres:
		if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
			if u.User != nil {
				username := u.User.Username()
				u.User = url.User(username)
			}
			return u.String()
		}
		// Fallback for DSN as key-value list
		parts := strings.Fields(dsn)
		for i, p := range parts {
			lower := strings.ToLower(p)
			if strings.HasPrefix(lower, "password=") {
				parts[i] = "password=***"
			}
		}
		return strings.Join(parts, " ")
	default:
		return dsn
	}
}
