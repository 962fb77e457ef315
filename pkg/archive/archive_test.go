package archive

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"huffar/pkg/logger"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()

	got := map[string]string{}
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	require.NoError(t, err)
	return got
}

var sampleFiles = map[string]string{
	"a.txt":          "aaabbc",
	"empty":          "",
	"single":         "zzzzzzzz",
	"nested/log.txt": "the quick brown fox jumps over the lazy dog, again and again and again",
}

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, compress := range []bool{true, false} {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		writeTree(t, src, sampleFiles)

		var logs bytes.Buffer
		out := filepath.Join(dir, "out")
		require.NoError(t, Pack([]string{src}, out, PackOptions{Compress: compress, Logger: logger.New(&logs)}))
		require.Contains(t, logs.String(), "[INFO] wrote 4 entries")

		entries, h, err := List(out + Ext)
		require.NoError(t, err)
		require.Equal(t, compress, h.Compressed())
		require.Len(t, entries, 4)

		dest := filepath.Join(dir, "dest")
		require.NoError(t, Unpack(out+Ext, dest))
		require.Equal(t, sampleFiles, readTree(t, dest))
	}
}

func TestPackIncludeParent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	writeTree(t, src, map[string]string{"x": "1"})

	out := filepath.Join(dir, "p.hfa")
	require.NoError(t, Pack([]string{src}, out, PackOptions{IncludeParent: true}))

	entries, _, err := List(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "project/x", entries[0].Path)
}

func TestPackSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"notes.txt": "hello"})

	out := filepath.Join(dir, "notes")
	require.NoError(t, Pack([]string{filepath.Join(dir, "notes.txt")}, out, PackOptions{Compress: true}))

	entries, _, err := List(out + Ext)
	require.NoError(t, err)
	require.Equal(t, "notes.txt", entries[0].Path)
	require.EqualValues(t, 5, entries[0].RawSize)
}

func TestPackNoInputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0755))
	err := Pack([]string{filepath.Join(dir, "empty")}, filepath.Join(dir, "out"), PackOptions{})
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestListRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "junk.hfa")
	require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte("x"), 64), 0644))

	_, _, err := List(p)
	require.ErrorIs(t, err, ErrNotArchive)
}

func TestAppend(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, filepath.Join(dir, "first"), map[string]string{"a": "alpha", "b": "bravo"})
	writeTree(t, filepath.Join(dir, "second"), map[string]string{"b": "BRAVO", "c": "charlie"})

	out := filepath.Join(dir, "arch.hfa")
	require.NoError(t, Append(out, []string{filepath.Join(dir, "first")}, PackOptions{Compress: true}))
	require.NoError(t, Append(out, []string{filepath.Join(dir, "second")}, PackOptions{}))

	entries, h, err := List(out)
	require.NoError(t, err)
	require.True(t, h.Compressed())
	require.Len(t, entries, 3)

	dest := filepath.Join(dir, "dest")
	require.NoError(t, Unpack(out, dest))
	require.Equal(t, map[string]string{"a": "alpha", "b": "BRAVO", "c": "charlie"}, readTree(t, dest))
}

func TestUnpackDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, filepath.Join(dir, "src"), map[string]string{"f": "some compressible text text text"})
	out := filepath.Join(dir, "c.hfa")
	require.NoError(t, Pack([]string{filepath.Join(dir, "src")}, out, PackOptions{Compress: true}))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	// chop the tail of the only entry's packed bits
	require.NoError(t, os.WriteFile(out, b[:len(b)-3], 0644))

	require.ErrorIs(t, Unpack(out, filepath.Join(dir, "dest")), ErrCorruptEntry)
}

func TestSafeJoin(t *testing.T) {
	_, err := safeJoin("/tmp/out", "../etc/passwd")
	require.ErrorIs(t, err, ErrUnsafePath)

	_, err = safeJoin("/tmp/out", "a/../../b")
	require.ErrorIs(t, err, ErrUnsafePath)

	p, err := safeJoin("/tmp/out", "a/b.txt")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/out", "a", "b.txt"), p)
}

func TestWithExt(t *testing.T) {
	require.Equal(t, "x.hfa", WithExt("x"))
	require.Equal(t, "x.hfa", WithExt("x.hfa"))
}

func TestUnpackRejectsOversizeEntry(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, filepath.Join(dir, "src"), map[string]string{"f": "payload"})
	out := filepath.Join(dir, "o.hfa")
	require.NoError(t, Pack([]string{filepath.Join(dir, "src")}, out, PackOptions{Compress: true}))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	// header (18) + path length (2) + "f" (1) + DataOffset (8) puts StoredSize at 29
	binary.LittleEndian.PutUint64(b[29:], 1<<62)
	require.NoError(t, os.WriteFile(out, b, 0644))

	require.NotPanics(t, func() {
		err = Unpack(out, filepath.Join(dir, "dest"))
	})
	require.ErrorIs(t, err, ErrCorruptEntry)

	writeTree(t, filepath.Join(dir, "more"), map[string]string{"g": "x"})
	require.NotPanics(t, func() {
		err = Append(out, []string{filepath.Join(dir, "more")}, PackOptions{})
	})
	require.ErrorIs(t, err, ErrCorruptEntry)
}

func TestAppendWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, filepath.Join(dir, "one"), map[string]string{"a": "alpha"})
	writeTree(t, filepath.Join(dir, "two"), map[string]string{"b": "bravo"})

	out := filepath.Join(dir, "arch")
	require.NoError(t, Append(out, []string{filepath.Join(dir, "one")}, PackOptions{Compress: true}))
	require.NoError(t, Append(out, []string{filepath.Join(dir, "two")}, PackOptions{Compress: true}))

	entries, _, err := List(out + Ext)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestFailuresAreLogged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0755))

	var logs bytes.Buffer
	opts := PackOptions{Logger: logger.New(&logs)}
	require.ErrorIs(t, Pack([]string{filepath.Join(dir, "empty")}, filepath.Join(dir, "p"), opts), ErrNoInputs)
	require.Contains(t, logs.String(), "[ERROR] pack into")

	logs.Reset()
	require.ErrorIs(t, Append(filepath.Join(dir, "a"), []string{filepath.Join(dir, "empty")}, opts), ErrNoInputs)
	require.Contains(t, logs.String(), "[ERROR] append to")
}
