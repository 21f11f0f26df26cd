package loaders_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesper-engine/vesper/engine/filesystem"
	"github.com/vesper-engine/vesper/engine/resources"
)

// memoryFileSystem is a synchronous in-memory read capability for loader
// tests.
type memoryFileSystem struct {
	files map[string][]byte
}

func newMemoryFileSystem() *memoryFileSystem {
	return &memoryFileSystem{files: make(map[string][]byte)}
}

func (f *memoryFileSystem) ReadFile(path string, onComplete filesystem.ReadCallback) {
	data, ok := f.files[path]
	onComplete(data, ok)
}

func newLoaderTestManager(t *testing.T) (*resources.ResourceManager, *memoryFileSystem) {
	t.Helper()
	fs := newMemoryFileSystem()
	m, err := resources.NewResourceManager(resources.ResourceManagerConfig{}, fs)
	require.NoError(t, err)
	return m, fs
}

// encodePNG renders a small solid image to PNG bytes.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 0x20
		img.Pix[i+1] = 0x40
		img.Pix[i+2] = 0x80
		img.Pix[i+3] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// encodeWAV builds a minimal PCM RIFF/WAVE file.
func encodeWAV(t *testing.T, channels uint16, sampleRate uint32, bitsPerSample uint16, samples []byte) []byte {
	t.Helper()
	var body bytes.Buffer

	body.WriteString("WAVE")

	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(16))
	binary.Write(&body, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&body, binary.LittleEndian, channels)
	binary.Write(&body, binary.LittleEndian, sampleRate)
	byteRate := sampleRate * uint32(channels) * uint32(bitsPerSample) / 8
	binary.Write(&body, binary.LittleEndian, byteRate)
	blockAlign := channels * bitsPerSample / 8
	binary.Write(&body, binary.LittleEndian, blockAlign)
	binary.Write(&body, binary.LittleEndian, bitsPerSample)

	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(len(samples)))
	body.Write(samples)
	if len(samples)%2 != 0 {
		body.WriteByte(0)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}
