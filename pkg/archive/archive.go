package archive

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"huffar/pkg/huffman"
	"huffar/pkg/logger"
)

var (
	Magic          = [6]byte{'H', 'U', 'F', 'F', 'A', 'R'}
	Version uint16 = 1
)

// Ext is appended to archive names that lack it.
const Ext = ".hfa"

const (
	// FlagCompressed marks every entry as a Huffman stream rather than raw bytes.
	FlagCompressed = 1 << 0
)

var (
	ErrNotArchive         = errors.New("file is not a valid HUFFAR archive")
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	ErrUnsafePath         = errors.New("entry path escapes output directory")
	ErrCorruptEntry       = errors.New("corrupt archive entry")
	ErrNoInputs           = errors.New("no input files")
)

type Header struct {
	Magic     [6]byte
	Version   uint16
	Flags     uint16
	IndexSize uint64
}

// Compressed reports whether entries hold Huffman streams.
func (h Header) Compressed() bool { return h.Flags&FlagCompressed != 0 }

type IndexEntry struct {
	PathLength uint16
	Path       string

	// DataOffset is relative to the start of the data region.
	DataOffset uint64
	StoredSize uint64
	RawSize    uint64
}

func (e IndexEntry) size() uint64 { return 2 + uint64(len(e.Path)) + 8 + 8 + 8 }

type PackOptions struct {
	Compress      bool
	IncludeParent bool
	Logger        logger.Logger
}

func (o PackOptions) log() logger.Logger {
	if o.Logger == nil {
		return logger.Nop()
	}
	return o.Logger
}

// WithExt returns out with the archive extension appended when missing.
func WithExt(out string) string {
	if strings.HasSuffix(out, Ext) {
		return out
	}
	return out + Ext
}

type source struct {
	path string
	rel  string
}

// collect walks every source. Directory entries are named relative to the
// directory, or to its parent when includeParent is set. Plain files keep
// only their base name.
func collect(srcs []string, includeParent bool) ([]source, error) {
	var out []source
	for _, src := range srcs {
		src = filepath.Clean(src)
		info, err := os.Stat(src)
		if err != nil {
			return nil, err
		}

		base := filepath.Dir(src)
		if info.IsDir() && !includeParent {
			base = src
		}

		err = filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(base, p)
			if err != nil {
				return err
			}
			out = append(out, source{path: p, rel: filepath.ToSlash(rel)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type stagedEntry struct {
	entry IndexEntry
	data  []byte
}

func stage(srcs []source, compress bool, log logger.Logger) ([]stagedEntry, error) {
	staged := make([]stagedEntry, 0, len(srcs))
	for _, s := range srcs {
		if len(s.rel) > 0xffff {
			return nil, fmt.Errorf("path too long: %s", s.rel)
		}
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, err
		}

		payload := raw
		if compress {
			var buf bytes.Buffer
			if _, err := huffman.WriteStream(&buf, raw); err != nil {
				return nil, fmt.Errorf("compress %s: %w", s.path, err)
			}
			payload = buf.Bytes()
		}
		log.Infof("staged %s: %d -> %d bytes", s.rel, len(raw), len(payload))

		staged = append(staged, stagedEntry{
			entry: IndexEntry{
				Path:       s.rel,
				PathLength: uint16(len(s.rel)),
				StoredSize: uint64(len(payload)),
				RawSize:    uint64(len(raw)),
			},
			data: payload,
		})
	}
	return staged, nil
}

// write lays out header, index and data region. Offsets are assigned here.
func write(w io.Writer, flags uint16, staged []stagedEntry) error {
	indexSize := uint64(0)
	for _, s := range staged {
		indexSize += s.entry.size()
	}

	bw := bufio.NewWriter(w)
	header := Header{
		Magic:     Magic,
		Version:   Version,
		Flags:     flags,
		IndexSize: indexSize,
	}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return err
	}

	curOffset := uint64(0)
	for i := range staged {
		e := &staged[i].entry
		e.DataOffset = curOffset
		curOffset += e.StoredSize

		if err := binary.Write(bw, binary.LittleEndian, e.PathLength); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Path); err != nil {
			return err
		}
		for _, v := range []uint64{e.DataOffset, e.StoredSize, e.RawSize} {
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}

	for _, s := range staged {
		if _, err := bw.Write(s.data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeFile writes the archive beside out and renames it into place, so a
// failed write never clobbers an existing archive.
func writeFile(out string, flags uint16, staged []stagedEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), filepath.Base(out)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp, flags, staged); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), out)
}

// Pack archives every regular file under srcs into WithExt(out).
func Pack(srcs []string, out string, opts PackOptions) error {
	out = WithExt(out)
	if err := pack(srcs, out, opts); err != nil {
		opts.log().Errorf("pack into %s: %v", out, err)
		return err
	}
	return nil
}

func pack(srcs []string, out string, opts PackOptions) error {
	log := opts.log()

	sources, err := collect(srcs, opts.IncludeParent)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return ErrNoInputs
	}

	staged, err := stage(sources, opts.Compress, log)
	if err != nil {
		return err
	}

	var flags uint16
	if opts.Compress {
		flags |= FlagCompressed
	}
	if err := writeFile(out, flags, staged); err != nil {
		return err
	}
	log.Infof("wrote %d entries to %s", len(staged), out)
	return nil
}

func readIndex(r io.Reader) (Header, []IndexEntry, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, nil, fmt.Errorf("%w: %w", ErrNotArchive, err)
	}
	if h.Magic != Magic {
		return h, nil, ErrNotArchive
	}
	if h.Version != Version {
		return h, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	var entries []IndexEntry
	read := uint64(0)
	for read < h.IndexSize {
		var e IndexEntry
		if err := binary.Read(r, binary.LittleEndian, &e.PathLength); err != nil {
			return h, nil, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
		}
		buf := make([]byte, e.PathLength)
		if _, err := io.ReadFull(r, buf); err != nil {
			return h, nil, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
		}
		e.Path = string(buf)

		for _, v := range []*uint64{&e.DataOffset, &e.StoredSize, &e.RawSize} {
			if err := binary.Read(r, binary.LittleEndian, v); err != nil {
				return h, nil, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
			}
		}

		read += e.size()
		entries = append(entries, e)
	}
	if read != h.IndexSize {
		return h, nil, fmt.Errorf("%w: index overruns declared size", ErrCorruptEntry)
	}
	return h, entries, nil
}

// List returns the archive header and its index.
func List(archive string) ([]IndexEntry, Header, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, Header{}, err
	}
	defer f.Close()

	h, entries, err := readIndex(bufio.NewReader(f))
	return entries, h, err
}

func dataStart(h Header) int64 {
	return int64(binary.Size(h)) + int64(h.IndexSize)
}

// readStored reads an entry's stored bytes from an archive of the given
// size. The index is untrusted, so its extent is checked before allocating.
func readStored(f io.ReaderAt, size int64, h Header, e IndexEntry) ([]byte, error) {
	start := dataStart(h)
	if start > size || e.DataOffset > uint64(size-start) || e.StoredSize > uint64(size-start)-e.DataOffset {
		return nil, fmt.Errorf("%w: %s: %d bytes at offset %d exceed the archive", ErrCorruptEntry, e.Path, e.StoredSize, e.DataOffset)
	}

	buf := make([]byte, e.StoredSize)
	if _, err := f.ReadAt(buf, start+int64(e.DataOffset)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptEntry, e.Path, err)
	}
	return buf, nil
}

// Extract returns the raw contents of one entry of an archive of the given
// size in bytes.
func Extract(f io.ReaderAt, size int64, h Header, e IndexEntry) ([]byte, error) {
	stored, err := readStored(f, size, h, e)
	if err != nil {
		return nil, err
	}

	out := stored
	if h.Compressed() {
		out, err = huffman.ReadStream(bytes.NewReader(stored))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}
	}
	if uint64(len(out)) != e.RawSize {
		return nil, fmt.Errorf("%w: %s: got %d bytes, index says %d", ErrCorruptEntry, e.Path, len(out), e.RawSize)
	}
	return out, nil
}

func safeJoin(outDir, rel string) (string, error) {
	dest := filepath.Join(outDir, filepath.FromSlash(rel))
	r, err := filepath.Rel(outDir, dest)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(os.PathSeparator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	return dest, nil
}

// Unpack restores every entry of archive under outDir.
func Unpack(archive, outDir string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	h, entries, err := readIndex(bufio.NewReader(f))
	if err != nil {
		return err
	}

	for _, e := range entries {
		dest, err := safeJoin(outDir, e.Path)
		if err != nil {
			return err
		}
		out, err := Extract(f, info.Size(), h, e)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, out, 0644); err != nil {
			return err
		}
	}
	return nil
}

// Append adds srcs to archive, creating it when missing. Existing entries
// are copied as stored; a new entry with the same path replaces the old
// one. New entries follow the archive's compression flag, not opts.
func Append(archive string, srcs []string, opts PackOptions) (err error) {
	log := opts.log()
	archive = WithExt(archive)
	defer func() {
		if err != nil {
			log.Errorf("append to %s: %v", archive, err)
		}
	}()

	f, err := os.Open(archive)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("%s does not exist, creating it", archive)
		return pack(srcs, archive, opts)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	h, entries, err := readIndex(bufio.NewReader(f))
	if err != nil {
		return err
	}
	if h.Compressed() != opts.Compress {
		log.Infof("archive compression is %v, ignoring requested %v", h.Compressed(), opts.Compress)
	}

	sources, err := collect(srcs, opts.IncludeParent)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return ErrNoInputs
	}
	added, err := stage(sources, h.Compressed(), log)
	if err != nil {
		return err
	}

	replaced := make(map[string]bool, len(added))
	for _, s := range added {
		replaced[s.entry.Path] = true
	}

	staged := make([]stagedEntry, 0, len(entries)+len(added))
	for _, e := range entries {
		if replaced[e.Path] {
			log.Infof("replacing %s", e.Path)
			continue
		}
		data, err := readStored(f, info.Size(), h, e)
		if err != nil {
			return err
		}
		staged = append(staged, stagedEntry{entry: e, data: data})
	}
	staged = append(staged, added...)

	if err := writeFile(archive, h.Flags, staged); err != nil {
		return err
	}
	log.Infof("appended %d entries to %s", len(added), archive)
	return nil
}
