package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	rterrors "github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Cache.Size != DefaultCacheSize || c.Logging.Level != DefaultLogLevel {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if _, ok := c.ModulePath(ir.ProgramKindFragment); ok {
		t.Error("default config should not name modules")
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[logging]
level = "debug"
development = true

[settings]
enabled = true
capabilities = { integerSupport = false, floatIs32Bits = true }

[cache]
size = 8

[modules]
runtime_shader = "modules/rt_shader.bin"
fragment = "modules/frag.bin.sz"
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Logging: Logging{Level: "debug", Development: true},
		Settings: Settings{
			Enabled:      true,
			Capabilities: map[string]bool{"integerSupport": false, "floatIs32Bits": true},
		},
		Cache: Cache{Size: 8},
		Modules: map[string]string{
			"runtime_shader": "modules/rt_shader.bin",
			"fragment":       "modules/frag.bin.sz",
		},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	path, ok := c.ModulePath(ir.ProgramKindRuntimeShader)
	if !ok || path != "modules/rt_shader.bin" {
		t.Errorf("ModulePath = %q, %v", path, ok)
	}

	ctx := c.Context()
	if v, enabled := ctx.Capability("integerSupport"); !enabled || v {
		t.Errorf("integerSupport = %v, enabled %v", v, enabled)
	}
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("[settings]\nenabled = false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Cache.Size != DefaultCacheSize {
		t.Errorf("cache size = %d", c.Cache.Size)
	}
	if c.Logging.Level != DefaultLogLevel {
		t.Errorf("level = %q", c.Logging.Level)
	}
	if _, enabled := c.Context().Capability("integerSupport"); enabled {
		t.Error("capabilities should be disabled")
	}

	c, err = Parse([]byte("[cache]\nsize = 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Cache.Size != 0 {
		t.Errorf("explicit zero cache size overwritten: %d", c.Cache.Size)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind rterrors.Kind
	}{
		{"syntax", "[logging\nlevel = 1", rterrors.KindInvalidInput},
		{"bad level", "[logging]\nlevel = \"loud\"", rterrors.KindInvalidInput},
		{"negative cache", "[cache]\nsize = -1", rterrors.KindInvalidInput},
		{"unknown capability", "[settings]\ncapabilities = { warpDrive = true }", rterrors.KindNotFound},
		{"unknown kind", "[modules]\ncompute = \"a.bin\"", rterrors.KindNotFound},
		{"empty path", "[modules]\nvertex = \" \"", rterrors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			var rerr *rterrors.Error
			if !errors.As(err, &rerr) {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if rerr.Phase != rterrors.PhaseConfig || rerr.Kind != tt.kind {
				t.Errorf("got %s/%s, want config/%s", rerr.Phase, rerr.Kind, tt.kind)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rehydrate.toml")
	if err := os.WriteFile(path, []byte("[cache]\nsize = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Cache.Size != 3 {
		t.Errorf("cache size = %d", c.Cache.Size)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, rterrors.Config("", nil)) {
		t.Errorf("missing file: %v", err)
	}
}

func TestLogger(t *testing.T) {
	c := Default()
	c.Logging.Level = "warn"
	log, err := c.Logger()
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled at warn level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error level disabled")
	}
}
