package alarm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	SampleRate = 44100

	// fade keeps bursts from clicking at their edges.
	fade      = 5 * time.Millisecond
	amplitude = 0.6
)

// Synthesize renders p as mono 16-bit PCM at sampleRate.
func Synthesize(p Pattern, sampleRate int) []int16 {
	var out []int16
	fadeN := samplesFor(fade, sampleRate)
	for _, tone := range p {
		n := samplesFor(tone.Duration, sampleRate)
		for i := 0; i < n; i++ {
			env := 1.0
			if i < fadeN {
				env = float64(i) / float64(fadeN)
			} else if n-i <= fadeN {
				env = float64(n-i) / float64(fadeN)
			}
			v := math.Sin(2*math.Pi*tone.Frequency*float64(i)/float64(sampleRate)) * amplitude * env
			out = append(out, int16(v*math.MaxInt16))
		}
		out = append(out, make([]int16, samplesFor(tone.Gap, sampleRate))...)
	}
	return out
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(d * time.Duration(sampleRate) / time.Second)
}

// EncodeWAV writes samples as a canonical 44-byte-header PCM WAV stream.
func EncodeWAV(w io.Writer, samples []int16, sampleRate int) error {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(samples) * 2)
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * bitsPerSample / 8),
		BlockAlign:    channels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}
