// Package wav wraps raw PCM sample data in a RIFF/WAVE container.
package wav

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	HeaderSize = 44

	// Gemini speech models answer with 16-bit mono PCM at 24 kHz.
	DefaultSampleRate    = 24000
	DefaultChannels      = 1
	DefaultBitsPerSample = 16

	formatPCM = 1
)

// Format describes the PCM samples being wrapped.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat matches the speech model output.
var DefaultFormat = Format{
	SampleRate:    DefaultSampleRate,
	Channels:      DefaultChannels,
	BitsPerSample: DefaultBitsPerSample,
}

func (f Format) validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("invalid wav format %+v", f)
	}
	if f.BitsPerSample <= 0 || f.BitsPerSample%8 != 0 {
		return fmt.Errorf("bits per sample must be a positive multiple of 8, got %d", f.BitsPerSample)
	}
	return nil
}

func (f Format) blockAlign() int { return f.Channels * f.BitsPerSample / 8 }

// Encode returns a complete WAV file holding pcm.
func Encode(pcm []byte, f Format) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if uint64(len(pcm))+HeaderSize-8 > 0xFFFFFFFF {
		return nil, fmt.Errorf("pcm data too large for a wav file: %d bytes", len(pcm))
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(pcm))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, uint32(HeaderSize-8+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, le, uint32(16))
	_ = binary.Write(&buf, le, uint16(formatPCM))
	_ = binary.Write(&buf, le, uint16(f.Channels))
	_ = binary.Write(&buf, le, uint32(f.SampleRate))
	_ = binary.Write(&buf, le, uint32(f.SampleRate*f.blockAlign()))
	_ = binary.Write(&buf, le, uint16(f.blockAlign()))
	_ = binary.Write(&buf, le, uint16(f.BitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, le, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// DecodeBase64PCM decodes inline audio that arrived base64 encoded.
// Standard and URL alphabets are accepted, padded or not.
func DecodeBase64PCM(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty audio payload")
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("audio payload is not valid base64")
}

// Duration returns the playback length of pcm in milliseconds.
func Duration(pcmLen int, f Format) int {
	if f.validate() != nil {
		return 0
	}
	bytesPerSecond := f.SampleRate * f.blockAlign()
	return int(int64(pcmLen) * 1000 / int64(bytesPerSecond))
}
