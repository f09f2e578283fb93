// Package audio inspects and reads the WAV input handed to the engines.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"subgen/internal/services"
)

const (
	// WhisperSampleRate is the rate whisper models are trained on.
	WhisperSampleRate = 16000
	formatPCM         = 1
)

// Info describes a WAV file.
type Info struct {
	Path       string
	Channels   int
	BitDepth   int
	SampleRate int
	Format     int
	Frames     int
	Duration   time.Duration
}

// Seconds returns the duration in seconds.
func (i Info) Seconds() float64 {
	return i.Duration.Seconds()
}

// Inspect reads the WAV header and data chunk size of path.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, services.Wrap(services.ErrInputFormat, "audio", "open", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, services.Wrap(services.ErrInputFormat, "audio", "inspect", fmt.Sprintf("%s is not a valid wav file", path), dec.Err())
	}
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, services.Wrap(services.ErrInputFormat, "audio", "locate pcm", path, err)
	}
	info := Info{
		Path:       path,
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		SampleRate: int(dec.SampleRate),
		Format:     int(dec.WavAudioFormat),
	}
	if frameSize := info.Channels * info.BitDepth / 8; frameSize > 0 {
		info.Frames = dec.PCMSize / frameSize
	}
	if info.SampleRate > 0 {
		info.Duration = time.Duration(float64(info.Frames) / float64(info.SampleRate) * float64(time.Second))
	}
	return info, nil
}

// RequireMonoPCM16 rejects anything but mono 16-bit uncompressed PCM.
func RequireMonoPCM16(info Info) error {
	if info.Channels != 1 || info.BitDepth != 16 || info.Format != formatPCM {
		return services.Wrap(services.ErrInputFormat, "audio", "validate",
			fmt.Sprintf("audio must be mono 16-bit PCM wav (got %d channel(s), %d-bit, format %d)", info.Channels, info.BitDepth, info.Format),
			nil)
	}
	return nil
}

// ChunkFunc receives little-endian PCM16 bytes along with the number of
// frames consumed so far and the total frame count.
type ChunkFunc func(chunk []byte, framesRead, totalFrames int) error

// Frames streams a mono PCM16 file in chunks of up to chunkFrames frames.
func Frames(path string, chunkFrames int, fn ChunkFunc) error {
	if chunkFrames < 1 {
		return fmt.Errorf("chunk frames must be positive, got %d", chunkFrames)
	}
	info, err := Inspect(path)
	if err != nil {
		return err
	}
	if err := RequireMonoPCM16(info); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrInputFormat, "audio", "open", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if err := dec.FwdToPCM(); err != nil {
		return services.Wrap(services.ErrInputFormat, "audio", "seek pcm", path, err)
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: info.SampleRate},
		Data:   make([]int, chunkFrames),
	}
	out := make([]byte, chunkFrames*2)
	read := 0
	for {
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			for i := 0; i < n; i++ {
				binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(buf.Data[i])))
			}
			read += n
			if cbErr := fn(out[:2*n], min(read, info.Frames), info.Frames); cbErr != nil {
				return cbErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return services.Wrap(services.ErrInputFormat, "audio", "read pcm", path, err)
		}
		if n == 0 {
			return nil
		}
	}
}

// DecodeFloat32 decodes path into mono float32 samples in [-1, 1] at
// WhisperSampleRate. Multi-channel input is downmixed.
func DecodeFloat32(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInputFormat, "audio", "open", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, services.Wrap(services.ErrInputFormat, "audio", "decode", fmt.Sprintf("%s is not a valid wav file", path), nil)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrInputFormat, "audio", "decode", path, err)
	}
	if buf == nil {
		return nil, services.Wrap(services.ErrInputFormat, "audio", "decode", "empty wav buffer", nil)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))
	channels := max(1, int(dec.NumChans))

	samples := make([]float32, len(buf.Data)/channels)
	for i := range samples {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]) / scale
		}
		samples[i] = sum / float32(channels)
	}

	rate := int(dec.SampleRate)
	if rate == 0 && buf.Format != nil {
		rate = buf.Format.SampleRate
	}
	if rate == 0 {
		rate = WhisperSampleRate
	}
	return ResampleLinear(samples, rate, WhisperSampleRate), nil
}

// ResampleLinear resamples samples from inRate to outRate using linear
// interpolation.
func ResampleLinear(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := max(1, int(float64(len(samples))*ratio))
	out := make([]float32, outLen)
	for i := range out {
		srcPos := float64(i) / ratio
		i0 := int(srcPos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcPos - float64(i0))
		out[i] = samples[i0] + (samples[i0+1]-samples[i0])*frac
	}
	return out
}
