package loaders

import (
	"encoding/binary"

	"github.com/vesper-engine/vesper/engine/resources"
)

// AudioResource holds uncompressed PCM samples parsed from a RIFF/WAVE file.
type AudioResource struct {
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	Samples       []byte
}

func NewAudioResource() resources.Loader {
	return &AudioResource{}
}

func (r *AudioResource) TypeName() string {
	return "audio"
}

func (r *AudioResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return resources.Errorf("'%s' is not a RIFF/WAVE file", path)
	}

	var haveFormat, haveData bool
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return resources.Errorf("truncated chunk '%s' in '%s'", chunkID, path)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return resources.Errorf("malformed fmt chunk in '%s'", path)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return resources.Errorf("'%s' uses unsupported WAVE format %d, only PCM is supported", path, audioFormat)
			}
			r.Channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			r.SampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			r.BitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFormat = true
		case "data":
			r.Samples = make([]byte, chunkSize)
			copy(r.Samples, data[body:body+chunkSize])
			haveData = true
		}

		// Chunks are word aligned.
		if chunkSize%2 != 0 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if !haveFormat || !haveData {
		return resources.Errorf("'%s' is missing fmt or data chunk", path)
	}
	return resources.Loaded()
}

// Duration returns the length of the clip in seconds.
func (r *AudioResource) Duration() float64 {
	if r.SampleRate == 0 || r.Channels == 0 || r.BitsPerSample == 0 {
		return 0
	}
	bytesPerSecond := float64(r.SampleRate) * float64(r.Channels) * float64(r.BitsPerSample) / 8.0
	return float64(len(r.Samples)) / bytesPerSecond
}
