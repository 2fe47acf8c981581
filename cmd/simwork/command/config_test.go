package command

import (
	"log/slog"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		cfg    Config
		env    map[string]string
		expErr string
	}{
		"empty config is valid": {},
		"full config": {
			cfg: Config{
				FrameInterval: "16ms",
				Storage:       StorageConfig{DataDir: "data"},
				Nats:          NatsConfig{StartTimeout: "5s"},
				Console:       ConsoleConfig{Width: 60},
				Scene:         SceneConfig{MapWidth: 41, MapHeight: 21, MoveDuration: "1s"},
			},
		},
		"bad frame interval": {
			cfg:    Config{FrameInterval: "soon"},
			expErr: "parsing frame_interval",
		},
		"frame interval too long": {
			cfg:    Config{FrameInterval: "2s"},
			expErr: "frame_interval must be positive",
		},
		"missing catalog path": {
			cfg:    Config{Storage: StorageConfig{CatalogPath: "/does/not/exist"}},
			expErr: "invalid catalog_path",
		},
		"bad start timeout": {
			cfg:    Config{Nats: NatsConfig{StartTimeout: "x"}},
			expErr: "parsing start_timeout",
		},
		"narrow console": {
			cfg:    Config{Console: ConsoleConfig{Width: 5}},
			expErr: "width must be at least",
		},
		"negative map": {
			cfg:    Config{Scene: SceneConfig{MapWidth: -1}},
			expErr: "map_width must not be negative",
		},
		"zero move duration": {
			cfg:    Config{Scene: SceneConfig{MoveDuration: "0s"}},
			expErr: "move_duration must be positive",
		},
		"environment override is validated": {
			env:    map[string]string{"SIMWORK_FRAME_INTERVAL": "forever"},
			expErr: "parsing frame_interval",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := tt.cfg.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIMWORK_DATA_DIR", dir)
	t.Setenv("SIMWORK_CATALOG_PATH", dir)
	t.Setenv("SIMWORK_FRAME_INTERVAL", "20ms")
	t.Setenv("SIMWORK_LOG_LEVEL", "DEBUG")

	cfg := Config{
		FrameInterval: "16ms",
		Storage:       StorageConfig{DataDir: "ignored"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "data dir", cfg.Storage.DataDir, dir)
	testutil.AssertEqual(t, "catalog path", cfg.Storage.CatalogPath, dir)
	testutil.AssertEqual(t, "frame interval", cfg.FrameInterval, "20ms")
	testutil.AssertEqual(t, "log level", cfg.LogLevel, slog.LevelDebug)
}

func TestBuilder_BuildWorkers(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{DataDir: t.TempDir()}}

	b := &Builder{}
	workers, err := b.BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"loop", "nats", "console"} {
		if _, ok := workers[name]; !ok {
			t.Errorf("missing worker %q", name)
		}
	}

	_, err = b.BuildWorkers("not a config")
	testutil.AssertErrorContains(t, err, "unable to cast config")
}
