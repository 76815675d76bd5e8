package config

import (
	"os"
	"path/filepath"
	"testing"

	"dao_voting/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a scratch dir so a stray .env in the repo never leaks in.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRewardAmount, cfg.RewardAmount)
	assert.EqualValues(t, 6, cfg.TokenDecimals)
	assert.True(t, cfg.RequireCreatorToClose)
	assert.Empty(t, cfg.DBDialect)

	id, err := cfg.ProgramAddress()
	require.NoError(t, err)
	assert.Equal(t, sdk.NewProgramID(DefaultProgramName), id)
}

// TestLayering checks yaml < .env < environment.
func TestLayering(t *testing.T) {
	dir := chdir(t)
	yml := filepath.Join(dir, "daovote.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("reward_amount: 5\nlisten_addr: \":9000\"\nrequire_creator_to_close: false\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKEN_DECIMALS=9\n"), 0o600))
	t.Setenv("REWARD_AMOUNT", "42")
	// registered with t.Setenv so cleanup unsets whatever .env puts there
	t.Setenv("TOKEN_DECIMALS", "")
	require.NoError(t, os.Unsetenv("TOKEN_DECIMALS"))

	cfg, err := Load(yml)
	require.NoError(t, err)
	assert.EqualValues(t, 42, cfg.RewardAmount)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.False(t, cfg.RequireCreatorToClose)
	assert.EqualValues(t, 9, cfg.TokenDecimals)
}

func TestBadEnv(t *testing.T) {
	chdir(t)
	t.Setenv("REWARD_AMOUNT", "lots")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("REWARD_AMOUNT", "0")
	_, err = Load("")
	assert.Error(t, err)
}

func TestParseDatabaseURL(t *testing.T) {
	cases := []struct {
		url, dialect, dsn string
	}{
		{"postgres://u:p@localhost:5432/dao", DatabaseSchemePostgres, "postgres://u:p@localhost:5432/dao"},
		{"postgresql://u@db/dao", DatabaseSchemePostgres, "postgresql://u@db/dao"},
		{"sqlite://data/dao.db", DatabaseSchemeSQLite, "data/dao.db"},
		{"leveldb:///var/lib/dao", DatabaseSchemeLevelDB, "/var/lib/dao"},
	}
	for _, c := range cases {
		dialect, dsn, err := parseDatabaseURL(c.url)
		require.NoError(t, err, c.url)
		assert.Equal(t, c.dialect, dialect, c.url)
		assert.Equal(t, c.dsn, dsn, c.url)
	}

	_, _, err := parseDatabaseURL("mysql://x")
	assert.Error(t, err)
	_, _, err = parseDatabaseURL("sqlite://")
	assert.Error(t, err)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://alice@db/dao", maskDSN(DatabaseSchemePostgres, "postgres://alice:secret@db/dao"))
	assert.Equal(t, "host=db password=*** user=a", maskDSN(DatabaseSchemePostgres, "host=db password=hunter2 user=a"))
	assert.Equal(t, "data/x.db", maskDSN(DatabaseSchemeSQLite, "data/x.db"))
}

func TestProgramAddressOverride(t *testing.T) {
	cfg := Default()
	want := sdk.NewProgramID("custom")
	cfg.ProgramID = want.String()
	got, err := cfg.ProgramAddress()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cfg.ProgramID = "not base58 0OIl"
	_, err = cfg.ProgramAddress()
	assert.Error(t, err)
}

func TestSetDatabaseURL(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetDatabaseURL("sqlite://x.db"))
	assert.Equal(t, DatabaseSchemeSQLite, cfg.DBDialect)
	require.NoError(t, cfg.SetDatabaseURL(""))
	assert.Empty(t, cfg.DBDialect)
}
