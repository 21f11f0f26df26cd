package filesystem

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"
)

// A vesper pack is a read-only asset archive. The archive itself is not
// compressed; every entry is compressed individually with lz4 so a single
// asset can be read and decompressed in place without touching the rest of
// the file. The gob-encoded header carries the full entry index, so entry
// locations are known before any data is read.

// package errors
var (
	ErrPackFormat   = errors.New("corrupted or not a vesper pack")
	ErrEntryMissing = errors.New("no such entry in pack")
)

const packMagic = "VPAK"

// Sizes relevant to the header of the file.
const (
	magicLength            = 4
	headerSizeNumberLength = 8
)

// PackEntry is info for one file in the pack index.
type PackEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// PackHeader is the file header for vesper packs.
type PackHeader struct {
	Author    string
	CreatedAt int64
	Version   int64
	Index     []PackEntry
}

// PackBuilder assembles a vesper pack in memory. Packs are versioned and
// cannot be appended to; building a new pack is the only way to change one.
type PackBuilder struct {
	header PackHeader
	names  []string
	blobs  map[string][]byte
	sizes  map[string]int64
}

func NewPackBuilder(author string, version int64) *PackBuilder {
	return &PackBuilder{
		header: PackHeader{
			Author:    author,
			CreatedAt: time.Now().Unix(),
			Version:   version,
		},
		blobs: make(map[string][]byte),
		sizes: make(map[string]int64),
	}
}

// Add compresses data and records it under name. Adding the same name twice
// replaces the previous entry.
func (b *PackBuilder) Add(name string, data []byte) error {
	name = normalizePackPath(name)
	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if _, exists := b.blobs[name]; !exists {
		b.names = append(b.names, name)
	}
	b.blobs[name] = compressed.Bytes()
	b.sizes[name] = int64(len(data))
	return nil
}

// WriteTo bundles all added entries into a pack ready to be opened.
func (b *PackBuilder) WriteTo(w io.Writer) (int64, error) {
	header := b.header
	header.Index = header.Index[:0]
	var offset int64
	for _, name := range b.names {
		blob := b.blobs[name]
		header.Index = append(header.Index, PackEntry{
			Name:           name,
			Offset:         offset,
			Size:           b.sizes[name],
			CompressedSize: int64(len(blob)),
		})
		offset += int64(len(blob))
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var written int64
	n, err := w.Write([]byte(packMagic))
	written += int64(n)
	if err != nil {
		return written, err
	}

	sizeBytes := make([]byte, headerSizeNumberLength)
	binary.LittleEndian.PutUint64(sizeBytes, uint64(len(rawHeader)))
	n, err = w.Write(sizeBytes)
	written += int64(n)
	if err != nil {
		return written, err
	}

	n, err = w.Write(rawHeader)
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, name := range b.names {
		n, err = w.Write(b.blobs[name])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ArchiveFileSystem serves reads from a vesper pack. It satisfies the same
// read contract as the local filesystem; callbacks complete synchronously.
type ArchiveFileSystem struct {
	reader   io.ReaderAt
	entries  map[string]PackEntry
	dataBase int64
}

// OpenArchive reads the pack header from r. It checks that r actually is a
// vesper pack and returns an error when it is not.
func OpenArchive(r io.ReaderAt) (*ArchiveFileSystem, error) {
	magic := make([]byte, magicLength)
	if num, err := r.ReadAt(magic, 0); err != nil {
		return nil, err
	} else if num < magicLength || string(magic) != packMagic {
		return nil, ErrPackFormat
	}

	sizeBytes := make([]byte, headerSizeNumberLength)
	if num, err := r.ReadAt(sizeBytes, magicLength); err != nil {
		return nil, err
	} else if num < headerSizeNumberLength {
		return nil, ErrPackFormat
	}
	headerSize := int64(binary.LittleEndian.Uint64(sizeBytes))

	rawHeader := make([]byte, headerSize)
	if num, err := r.ReadAt(rawHeader, magicLength+headerSizeNumberLength); err != nil {
		return nil, err
	} else if int64(num) < headerSize {
		return nil, ErrPackFormat
	}

	var header PackHeader
	if err := gobDecode(&header, rawHeader); err != nil {
		return nil, ErrPackFormat
	}

	entries := make(map[string]PackEntry, len(header.Index))
	for _, e := range header.Index {
		entries[e.Name] = e
	}

	return &ArchiveFileSystem{
		reader:   r,
		entries:  entries,
		dataBase: magicLength + headerSizeNumberLength + headerSize,
	}, nil
}

// ReadAll returns the decompressed contents of the named entry.
func (a *ArchiveFileSystem) ReadAll(name string) ([]byte, error) {
	entry, ok := a.entries[normalizePackPath(name)]
	if !ok {
		return nil, ErrEntryMissing
	}

	compressed := make([]byte, entry.CompressedSize)
	if _, err := a.reader.ReadAt(compressed, a.dataBase+entry.Offset); err != nil {
		return nil, err
	}

	zr := lz4.NewReader(bytes.NewReader(compressed))
	data := make([]byte, entry.Size)
	if _, err := io.ReadFull(zr, data); err != nil {
		return nil, ErrPackFormat
	}
	return data, nil
}

func (a *ArchiveFileSystem) ReadFile(p string, onComplete ReadCallback) {
	data, err := a.ReadAll(p)
	if err != nil {
		onComplete(nil, false)
		return
	}
	onComplete(data, true)
}

// Entries returns the names of all entries in the pack.
func (a *ArchiveFileSystem) Entries() []string {
	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	return names
}

// normalizePackPath maps any platform path shape onto the slash-separated,
// relative form entries are stored under.
func normalizePackPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "/")
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	enc := gob.NewEncoder(&encoded)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	return gob.NewDecoder(bytes.NewBuffer(bts)).Decode(obj)
}
