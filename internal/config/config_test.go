package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/jentrygen/internal/codegen"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sfs_jentries.c", cfg.Template)
	assert.True(t, cfg.Verify)
	assert.Equal(t, "/* Autogenerate: cases */", cfg.Markers.Dispatch)
	assert.Equal(t, codegen.DefaultOptions(), cfg.CodegenOptions())
	assert.Equal(t, "mips32", cfg.Analyzer.Target)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("JENTRYGEN_TEMPLATE", "")
	t.Setenv("JENTRYGEN_TARGET", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("JENTRYGEN_TEMPLATE", "")
	t.Setenv("JENTRYGEN_TARGET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "jentrygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
template: kern/fs/sfs/sfs_jentries.c
verify: false
codegen:
  tag_case: screaming_snake
  alloc_func: malloc
analyzer:
  target: amd64
  typedefs:
    blkno_t: uint32_t
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(dir, "kern/fs/sfs/sfs_jentries.c"), cfg.Template)
	assert.False(t, cfg.Verify)
	assert.Equal(t, codegen.TagScreamingSnake, cfg.CodegenOptions().TagCase)
	assert.Equal(t, "malloc", cfg.Codegen.AllocFunc)
	assert.Equal(t, "kprintf", cfg.Codegen.PrintFunc, "unset keys keep defaults")
	assert.Equal(t, "/* End autogenerate */", cfg.Markers.End)

	reg, err := cfg.TypeRegistry()
	require.NoError(t, err)
	size, _, err := reg.SizeOf("blkno_t")
	require.NoError(t, err)
	assert.Equal(t, 4, size)
	size, _, err = reg.SizeOf("void *")
	require.NoError(t, err)
	assert.Equal(t, 8, size)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jentrygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("template: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JENTRYGEN_TEMPLATE", "/tmp/other.c")
	t.Setenv("JENTRYGEN_TARGET", "i386")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.c", cfg.Template)
	assert.Equal(t, "i386", cfg.Analyzer.Target)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty template", func(c *Config) { c.Template = "" }},
		{"empty marker", func(c *Config) { c.Markers.End = "" }},
		{"same markers", func(c *Config) { c.Markers.Constructors = c.Markers.Dispatch }},
		{"bad tag case", func(c *Config) { c.Codegen.TagCase = "camel" }},
		{"bad identifier", func(c *Config) { c.Codegen.PrintFunc = "k-printf" }},
		{"unknown target", func(c *Config) { c.Analyzer.Target = "pdp11" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("JENTRYGEN_TEMPLATE", "")
	t.Setenv("JENTRYGEN_TARGET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "jentrygen.yaml")

	cfg := Default()
	cfg.Template = filepath.Join(dir, "t.c")
	cfg.Codegen.SizeVar = "len"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
