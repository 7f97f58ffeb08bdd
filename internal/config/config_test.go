package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "o-jill", cfg.Artifacts.Owner)
	assert.Equal(t, "ruversi", cfg.Artifacts.Repo)
	assert.Equal(t, 100, cfg.Artifacts.PerPage)
	assert.Equal(t, 3, cfg.Artifacts.MaxPages)
	assert.Equal(t, 100, cfg.Artifacts.TableSize)
	assert.Equal(t, "kifu-", cfg.Artifacts.Prefix)
	assert.Len(t, cfg.Bench.Positions, 3)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("explicit file overrides defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		path := filepath.Join(t.TempDir(), "tools.yaml")
		data := []byte("artifacts:\n  owner: someone\n  max_pages: 7\nbench:\n  runs: 2\n  features: --features=avx\n")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "someone", cfg.Artifacts.Owner)
		assert.Equal(t, "ruversi", cfg.Artifacts.Repo)
		assert.Equal(t, 7, cfg.Artifacts.MaxPages)
		assert.Equal(t, 2, cfg.Bench.Runs)
		assert.Equal(t, "--features=avx", cfg.Bench.Features)
	})

	t.Run("no file returns defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Artifacts, cfg.Artifacts)
	})

	t.Run("default file is picked up", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "tools.yaml"), []byte("artifacts:\n  repo: other\n"), 0o644))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "other", cfg.Artifacts.Repo)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		chdir(t, t.TempDir())
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("artifacts: [unclosed"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("environment wins", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv(EnvFeatures, "--features=sse")
		t.Setenv(EnvOwner, "env-owner")
		t.Setenv(EnvAPIURL, "http://127.0.0.1:1/")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "--features=sse", cfg.Bench.Features)
		assert.Equal(t, "env-owner", cfg.Artifacts.Owner)
		assert.Equal(t, "http://127.0.0.1:1/", cfg.Artifacts.APIURL)
	})

	t.Run("dotenv file is read", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		// godotenv does not override variables that are already set.
		os.Unsetenv(EnvRepo)
		t.Cleanup(func() { os.Unsetenv(EnvRepo) })
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvRepo+"=dotenv-repo\n"), 0o644))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "dotenv-repo", cfg.Artifacts.Repo)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Artifacts.TableSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bench.Runs = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Artifacts.Owner = ""
	assert.Error(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
