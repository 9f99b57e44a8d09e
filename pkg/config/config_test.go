package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/config"
	"github.com/lumapress/luma/pkg/storage"
)

// chdir moves the working directory for one test so config discovery
// cannot pick up a stray luma.yaml from the repo root.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.BackendAuto, cfg.Storage.Backend)
	require.Equal(t, "content", cfg.Storage.Root)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Log.JSON)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "luma.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: s3
  s3:
    bucket: my-photos
    region: eu-central-1
server:
  port: 9090
auth:
  jwt_secret: topsecret
log:
  level: debug
  json: true
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.BackendS3, cfg.Storage.Backend)
	require.Equal(t, "my-photos", cfg.Storage.S3.Bucket)
	require.Equal(t, "eu-central-1", cfg.Storage.S3.Region)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "topsecret", cfg.Auth.JWTSecret)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.JSON)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LUMA_STORAGE_BACKEND", "fs")
	t.Setenv("LUMA_STORAGE_ROOT", "/srv/content")
	t.Setenv("LUMA_SERVER_PORT", "7000")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.BackendFs, cfg.Storage.Backend)
	require.Equal(t, "/srv/content", cfg.Storage.Root)
	require.Equal(t, 7000, cfg.Server.Port)
}

func TestResolveBackend(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{name: "explicit fs", cfg: config.StorageConfig{Backend: config.BackendFs}, want: config.BackendFs},
		{name: "explicit s3", cfg: config.StorageConfig{Backend: config.BackendS3}, want: config.BackendS3},
		{
			name: "auto without bucket",
			cfg:  config.StorageConfig{Backend: config.BackendAuto},
			want: config.BackendFs,
		},
		{
			name: "auto with bucket",
			cfg: config.StorageConfig{
				Backend: config.BackendAuto,
				S3:      config.S3Config{Bucket: "b"},
			},
			want: config.BackendS3,
		},
		{
			name: "unknown value behaves like auto",
			cfg:  config.StorageConfig{Backend: "weird"},
			want: config.BackendFs,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, tc.cfg.ResolveBackend())
		})
	}
}

func TestOpenStore_Fs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := t.TempDir()
	store, err := config.OpenStore(ctx, config.StorageConfig{
		Backend: config.BackendFs,
		Root:    root,
	})
	require.NoError(t, err)

	fsStore, ok := store.(*storage.FsStore)
	require.True(t, ok)
	require.Equal(t, root, fsStore.Root)
}
