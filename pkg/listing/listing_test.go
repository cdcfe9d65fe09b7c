package listing

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T, names ...string) string {
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("dummy"), 0644))
	}
	return dir
}

func TestListAscending(t *testing.T) {
	dir := setupTest(t, "b.mp4", "a.mp4", "c.mp4")

	l := List(dir, false)
	assert.NoError(t, l.Err)
	assert.Empty(t, l.Problems)
	assert.Equal(t, []string{"a.mp4", "b.mp4", "c.mp4"}, l.Names)
	assert.Equal(t, 3, l.Len())
}

func TestListDescending(t *testing.T) {
	dir := setupTest(t, "1700000000.mp4", "1600000000.mp4", "1800000000.mp4")

	l := List(dir, true)
	assert.Equal(t, []string{"1800000000.mp4", "1700000000.mp4", "1600000000.mp4"}, l.Names)
}

func TestListDescendingIsReverseOfAscending(t *testing.T) {
	var names []string
	for i := 0; i < 600; i++ {
		names = append(names, fmt.Sprintf("%d.mp4", 1700000000+i*37))
	}
	dir := setupTest(t, names...)

	asc := List(dir, false).Names
	desc := List(dir, true).Names

	require.Len(t, asc, 600)
	assert.True(t, sort.StringsAreSorted(asc))

	reversed := append([]string(nil), asc...)
	Reverse(reversed)
	assert.Equal(t, reversed, desc)
}

func TestListByteOrder(t *testing.T) {
	dir := setupTest(t, "a.mp4", "B.mp4", "_c.mp4", "10.mp4", "9.mp4")

	l := List(dir, false)
	assert.Equal(t, []string{"10.mp4", "9.mp4", "B.mp4", "_c.mp4", "a.mp4"}, l.Names)
}

func TestListIncludesSubdirectoriesWithoutRecursing(t *testing.T) {
	dir := setupTest(t, "a.mp4")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested", "deeper"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "inner.mp4"), []byte("x"), 0644))

	l := List(dir, false)
	assert.Equal(t, []string{"a.mp4", "nested"}, l.Names)
}

func TestListEmptyDirectory(t *testing.T) {
	l := List(t.TempDir(), false)
	assert.NoError(t, l.Err)
	assert.Empty(t, l.Names)
	assert.Equal(t, 0, l.Len())
}

func TestListMissingDirectory(t *testing.T) {
	l := List(filepath.Join(t.TempDir(), "does-not-exist"), false)
	assert.Error(t, l.Err)
	assert.True(t, errors.Is(l.Err, os.ErrNotExist))
	assert.Empty(t, l.Names)
}

func TestListFileInsteadOfDirectory(t *testing.T) {
	dir := setupTest(t, "a.mp4")

	l := List(filepath.Join(dir, "a.mp4"), false)
	assert.Empty(t, l.Names)
	assert.ErrorIs(t, l.Err, ErrNotDirectory)
	assert.Empty(t, l.Problems)
}

type fakeEntry string

func (e fakeEntry) Name() string               { return string(e) }
func (e fakeEntry) IsDir() bool                { return false }
func (e fakeEntry) Type() fs.FileMode          { return 0 }
func (e fakeEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrNotExist }

type batch struct {
	names []string
	err   error
}

// fakeDir replays batches, then reports io.EOF.
type fakeDir struct {
	batches []batch
	calls   int
}

func (d *fakeDir) ReadDir(n int) ([]os.DirEntry, error) {
	d.calls++
	if len(d.batches) == 0 {
		return nil, io.EOF
	}
	b := d.batches[0]
	d.batches = d.batches[1:]
	entries := make([]os.DirEntry, 0, len(b.names))
	for _, name := range b.names {
		entries = append(entries, fakeEntry(name))
	}
	return entries, b.err
}

func TestReadContinuesAfterFailedEntry(t *testing.T) {
	errPerm := fmt.Errorf("lstat e4: %w", fs.ErrPermission)
	d := &fakeDir{batches: []batch{
		{names: []string{"e1", "e2"}},
		{names: []string{"e3"}, err: errPerm},
		{names: []string{"e5", "e6"}},
	}}

	var l Listing
	l.read(d, "/videos")
	assert.Equal(t, []string{"e1", "e2", "e3", "e5", "e6"}, l.Names)
	require.Len(t, l.Problems, 1)
	assert.ErrorIs(t, l.Problems[0], fs.ErrPermission)
}

func TestReadContinuesAfterFailureAtBatchStart(t *testing.T) {
	d := &fakeDir{batches: []batch{
		{names: []string{"e1"}},
		{err: fs.ErrPermission},
		{names: []string{"e3"}},
	}}

	var l Listing
	l.read(d, "/videos")
	assert.Equal(t, []string{"e1", "e3"}, l.Names)
	assert.Len(t, l.Problems, 1)
}

func TestReadStopsWhenStreamKeepsFailing(t *testing.T) {
	d := &fakeDir{}
	for i := 0; i < 100; i++ {
		d.batches = append(d.batches, batch{err: errors.New("getdents: input/output error")})
	}

	var l Listing
	l.read(d, "/videos")
	assert.Empty(t, l.Names)
	assert.Len(t, l.Problems, maxEmptyFailures)
	assert.Equal(t, maxEmptyFailures, d.calls)
}

func TestListSkipsInvalidNames(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("arbitrary byte file names are only portable on linux")
	}
	dir := setupTest(t, "a.mp4", "b.mp4")
	if err := os.WriteFile(filepath.Join(dir, "\xff\xfe.mp4"), []byte("x"), 0644); err != nil {
		t.Skipf("filesystem rejected invalid UTF-8 name: %v", err)
	}

	l := List(dir, false)
	assert.NoError(t, l.Err)
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, l.Names)
	require.Len(t, l.Problems, 1)
	assert.ErrorIs(t, l.Problems[0], ErrInvalidName)
}

func TestReverse(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	Reverse(names)
	assert.Equal(t, []string{"d", "c", "b", "a"}, names)

	var empty []string
	Reverse(empty)
	assert.Empty(t, empty)
}
