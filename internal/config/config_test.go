package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/config"
)

const sampleProfile = `
time=10
directio=1

[filesystem]
location=/mnt/bench
num_files=100
num_dirs=4
min_filesize=4096
max_filesize=65536
create_blocksize=4096
[end]

[threadgroup]
num_threads=4
read_weight=5
write_weight=1
read_blocksize=4096
write_blocksize=4096
[end]
`

func TestParseNew_BindsGlobalFilesystemAndThreadGroup(t *testing.T) {
	p, err := config.ParseNew(sampleProfile)
	require.NoError(t, err)

	require.Equal(t, uint32(10), p.Global.Time)
	require.True(t, p.Global.DirectIO)

	require.Len(t, p.Filesystems, 1)
	fsCfg := p.Filesystems[0]
	require.Equal(t, "/mnt/bench", fsCfg.Location)
	require.Equal(t, uint64(100), fsCfg.NumFiles)
	require.Equal(t, 4, fsCfg.NumDirs)
	require.Equal(t, uint64(65536), fsCfg.MaxFilesize)

	require.Len(t, p.Groups, 1)
	tg := p.Groups[0]
	require.Equal(t, 4, tg.NumThreads)
	require.Equal(t, uint32(5), tg.Weight[config.OpRead])
	require.Equal(t, uint32(1), tg.Weight[config.OpWrite])
}

func TestParseNew_IgnoresCommentsAndBlankLines(t *testing.T) {
	text := "# a comment\n\ntime=5\n\n# another\n"
	p, err := config.ParseNew(text)
	require.NoError(t, err)
	require.Equal(t, uint32(5), p.Global.Time)
}

func TestValidate_RejectsZeroWeightSum(t *testing.T) {
	p, err := config.ParseNew(`
[filesystem]
location=/mnt/bench
[end]

[threadgroup]
num_threads=1
[end]
`)
	require.NoError(t, err)

	err = config.Validate(p)
	require.ErrorIs(t, err, config.ErrValidation)
}

func TestValidate_RejectsReadWithoutBlocksize(t *testing.T) {
	p, err := config.ParseNew(`
[filesystem]
location=/mnt/bench
[end]

[threadgroup]
num_threads=1
read_weight=1
[end]
`)
	require.NoError(t, err)

	err = config.Validate(p)
	require.ErrorIs(t, err, config.ErrValidation)
}

func TestValidate_RejectsReadRandomAndReadSkipTogether(t *testing.T) {
	p, err := config.ParseNew(`
[filesystem]
location=/mnt/bench
[end]

[threadgroup]
num_threads=1
read_weight=1
read_blocksize=4096
read_random=1
read_skip=1
read_skipsize=4096
[end]
`)
	require.NoError(t, err)

	err = config.Validate(p)
	require.ErrorIs(t, err, config.ErrValidation)
}

func TestValidate_AcceptsWellFormedProfile(t *testing.T) {
	p, err := config.ParseNew(sampleProfile)
	require.NoError(t, err)
	require.NoError(t, config.Validate(p))
}

func TestSerialize_ParseIsFixedPoint(t *testing.T) {
	p, err := config.ParseNew(sampleProfile)
	require.NoError(t, err)

	roundTripped, err := config.ParseNew(config.Serialize(p))
	require.NoError(t, err)

	require.Equal(t, p, roundTripped)
}

func TestParseOld_AppliesTimeOverride(t *testing.T) {
	text := `
location=/mnt/bench
num_files=8
min_filesize=4096
max_filesize=4096
num_threads=2
read_weight=1
read_blocksize=4096
`
	p, err := config.ParseOld(text, 30)
	require.NoError(t, err)

	require.Equal(t, uint32(30), p.Global.Time)
	require.Len(t, p.Filesystems, 1)
	require.Equal(t, "/mnt/bench", p.Filesystems[0].Location)
	require.Len(t, p.Groups, 1)
	require.Equal(t, 2, p.Groups[0].NumThreads)
}

func TestDumpResolved_LoadResolvedJSON_RoundTrips(t *testing.T) {
	p, err := config.ParseNew(sampleProfile)
	require.NoError(t, err)

	path := t.TempDir() + "/resolved.jsonc"
	require.NoError(t, config.DumpResolved(path, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := config.LoadResolvedJSON(string(data))
	require.NoError(t, err)

	require.Equal(t, p.Global, got.Global)
	require.Equal(t, p.Filesystems, got.Filesystems)
	require.Equal(t, p.Groups, got.Groups)
}
