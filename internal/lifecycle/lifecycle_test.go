package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/lifecycle"
	"github.com/jrsantos/ffsb/internal/syncutil"
	"github.com/jrsantos/ffsb/pkg/fs"
)

func TestConstruct_PopulatesRequestedFileCount(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	cfg := &config.Filesystem{
		Location:        dir,
		NumDirs:         2,
		NumFiles:        10,
		MinFilesize:     512,
		MaxFilesize:     512,
		CreateBlocksize: 512,
	}

	res, err := lifecycle.Construct(fs.NewReal(), cfg, syncutil.NewRNG(1))
	require.NoError(t, err)
	require.Equal(t, 10, res.Target.Fileset.IndexSize())
}

func TestConstruct_ReuseRebuildsCatalogFromExistingTree(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	cfg := &config.Filesystem{
		Location:        dir,
		NumDirs:         1,
		NumFiles:        5,
		MinFilesize:     256,
		MaxFilesize:     256,
		CreateBlocksize: 256,
	}

	_, err := lifecycle.Construct(fs.NewReal(), cfg, syncutil.NewRNG(1))
	require.NoError(t, err)

	reuseCfg := *cfg
	reuseCfg.Reuse = true
	res, err := lifecycle.Construct(fs.NewReal(), &reuseCfg, syncutil.NewRNG(2))
	require.NoError(t, err)
	require.Equal(t, 5, res.Target.Fileset.IndexSize())
}

func TestConstruct_ReuseRejectsOutOfRangeSizes(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	cfg := &config.Filesystem{
		Location:        dir,
		NumDirs:         1,
		NumFiles:        3,
		MinFilesize:     256,
		MaxFilesize:     256,
		CreateBlocksize: 256,
	}

	_, err := lifecycle.Construct(fs.NewReal(), cfg, syncutil.NewRNG(1))
	require.NoError(t, err)

	reuseCfg := *cfg
	reuseCfg.Reuse = true
	reuseCfg.MinFilesize = 4096
	reuseCfg.MaxFilesize = 8192
	_, err = lifecycle.Construct(fs.NewReal(), &reuseCfg, syncutil.NewRNG(2))
	require.ErrorIs(t, err, lifecycle.ErrNonConformant)
}

func TestConstruct_SeedsMetaDir(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	cfg := &config.Filesystem{
		Location:        dir,
		NumDirs:         1,
		NumFiles:        1,
		MinFilesize:     128,
		MaxFilesize:     128,
		CreateBlocksize: 128,
	}

	res, err := lifecycle.Construct(fs.NewReal(), cfg, syncutil.NewRNG(1))
	require.NoError(t, err)

	entries, err := fs.NewReal().ReadDir(res.Target.MetaDir)
	require.NoError(t, err)
	require.Len(t, entries, 16)
}
