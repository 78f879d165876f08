package driver_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/driver"
	"github.com/jrsantos/ffsb/pkg/fs"
)

func TestRun_SetupOnlySkipsMeasuredRun(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	profile := &config.Profile{
		Global: config.Global{Time: 0},
		Filesystems: []config.Filesystem{{
			Location:        dir,
			NumDirs:         2,
			NumFiles:        4,
			MinFilesize:     512,
			MaxFilesize:     512,
			CreateBlocksize: 512,
		}},
	}

	var stdout bytes.Buffer
	err := driver.Run(context.Background(), profile, fs.NewReal(), &stdout)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "setup-only mode")
}

func TestRun_CalloutRunsBetweenSetupAndMeasuredRun(t *testing.T) {
	dir := t.TempDir()
	fsDir := dir + "/fs0"
	marker := filepath.Join(dir, "callout-ran")

	profile := &config.Profile{
		Global: config.Global{
			Time:    0,
			Callout: "touch " + marker,
		},
		Filesystems: []config.Filesystem{{
			Location:        fsDir,
			NumDirs:         1,
			NumFiles:        2,
			MinFilesize:     256,
			MaxFilesize:     256,
			CreateBlocksize: 256,
		}},
	}

	var stdout bytes.Buffer
	err := driver.Run(context.Background(), profile, fs.NewReal(), &stdout)
	require.NoError(t, err)

	_, statErr := os.Stat(marker)
	require.NoError(t, statErr, "callout should have created the marker file")
}

func TestRun_CalloutFailureIsFatal(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	profile := &config.Profile{
		Global: config.Global{
			Time:    0,
			Callout: "exit 1",
		},
		Filesystems: []config.Filesystem{{
			Location:        dir,
			NumDirs:         1,
			NumFiles:        1,
			MinFilesize:     128,
			MaxFilesize:     128,
			CreateBlocksize: 128,
		}},
	}

	var stdout bytes.Buffer
	err := driver.Run(context.Background(), profile, fs.NewReal(), &stdout)
	require.Error(t, err)
}

func TestRun_NoGroupsWithNonZeroTimeFails(t *testing.T) {
	dir := t.TempDir() + "/fs0"
	profile := &config.Profile{
		Global: config.Global{Time: 5},
		Filesystems: []config.Filesystem{{
			Location:        dir,
			NumDirs:         1,
			NumFiles:        1,
			MinFilesize:     128,
			MaxFilesize:     128,
			CreateBlocksize: 128,
		}},
	}

	var stdout bytes.Buffer
	err := driver.Run(context.Background(), profile, fs.NewReal(), &stdout)
	require.Error(t, err)
}
