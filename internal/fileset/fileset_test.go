package fileset_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsantos/ffsb/internal/fileset"
)

func TestAddFile_AllocatesDenseNums(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)

	e0, err := fs.AddFile(100)
	require.NoError(t, err)
	require.Equal(t, uint64(0), e0.Num())
	e0.Unlock()

	e1, err := fs.AddFile(200)
	require.NoError(t, err)
	require.Equal(t, uint64(1), e1.Num())
	e1.Unlock()

	require.Equal(t, 2, fs.IndexSize())
	require.Equal(t, uint64(2), fs.ListSize())
}

func TestAddFile_ReusesHoleAfterRemove(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)

	e0, _ := fs.AddFile(100)
	num0 := e0.Num()
	e0.Unlock()

	e0.Lock()
	fs.RemoveFile(e0)
	e0.Unlock()

	require.Equal(t, 0, fs.IndexSize())
	require.Equal(t, 1, fs.HoleCount())

	e1, err := fs.AddFile(50)
	require.NoError(t, err)
	defer e1.Unlock()

	require.Equal(t, num0, e1.Num(), "add after remove must reuse the freed num")
	require.Equal(t, 0, fs.HoleCount())
	require.Equal(t, uint64(1), fs.ListSize(), "listsize must not grow on a reused num")
}

func TestListSize_EqualsIndexPlusHoles(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)

	entries := make([]*fileset.FileEntry, 0, 5)
	for i := 0; i < 5; i++ {
		e, err := fs.AddFile(10)
		require.NoError(t, err)
		entries = append(entries, e)
		e.Unlock()
	}

	for _, e := range entries[:2] {
		e.Lock()
		fs.RemoveFile(e)
		e.Unlock()
	}

	require.Equal(t, uint64(fs.IndexSize()+fs.HoleCount()), fs.ListSize())
}

func TestChooseReader_EmptyFileset(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)

	_, err := fs.ChooseReader(func(n int) int { return 0 })
	require.ErrorIs(t, err, fileset.ErrEmpty)
}

func TestChooseWriter_EmptyFileset(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)

	_, err := fs.ChooseWriter(func(n int) int { return 0 })
	require.ErrorIs(t, err, fileset.ErrEmpty)
}

func TestChooseReader_ReturnsReadLockedEntry(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)
	e, _ := fs.AddFile(10)
	e.Unlock()

	got, err := fs.ChooseReader(func(n int) int { return 0 })
	require.NoError(t, err)
	require.Equal(t, e.Num(), got.Num())
	got.RUnlock()
}

// TestConcurrentAddRemove exercises invariant 5 from the spec's testable
// properties section indirectly: no two goroutines should ever be able to
// observe an inconsistent index (a panic or data race would fail this
// under -race).
func TestConcurrentAddRemove(t *testing.T) {
	fs := fileset.New("/tmp/base", "f", 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e, err := fs.AddFile(10)
				if err != nil {
					continue
				}
				e.Unlock()

				e.Lock()
				fs.RemoveFile(e)
				e.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 0, fs.IndexSize())
}
