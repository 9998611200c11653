/*
DESCRIPTION
  clip.go provides decoding of WAV and FLAC sound files into PCM clips ready
  for playback.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sound

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

var (
	ErrUnsupportedFile  = errors.New("unsupported sound file")
	ErrUnsupportedDepth = errors.New("unsupported bit depth")
)

// Clip is decoded sound held as interleaved signed little endian PCM.
type Clip struct {
	Rate     int
	Channels int
	BitDepth int // 16 or 32.
	Data     []byte
}

// Frames returns the number of sample frames in c.
func (c *Clip) Frames() int {
	return len(c.Data) / (c.Channels * c.BitDepth / 8)
}

// Load decodes the WAV or FLAC file at path, chosen by its extension.
func Load(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f)
	case ".flac":
		return decodeFLAC(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
}

func decodeWAV(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV", ErrUnsupportedFile)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not decode WAV: %w", err)
	}
	return newClip(buf.Data, int(d.SampleRate), int(d.NumChans), int(d.BitDepth))
}

func decodeFLAC(r io.Reader) (*Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse FLAC: %w", err)
	}
	defer stream.Close()

	var data []int
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not decode FLAC frame: %w", err)
		}
		for i := 0; i < frame.Subframes[0].NSamples; i++ {
			for _, sf := range frame.Subframes {
				data = append(data, int(sf.Samples[i]))
			}
		}
	}
	return newClip(data, int(stream.Info.SampleRate), int(stream.Info.NChannels), int(stream.Info.BitsPerSample))
}

// newClip packs samples of the given source depth. 8 bit (unsigned) and 16
// bit sources are packed as 16 bit, 24 and 32 bit sources as 32 bit.
func newClip(samples []int, rate, channels, depth int) (*Clip, error) {
	if channels <= 0 || rate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %dHz", ErrUnsupportedFile, channels, rate)
	}
	c := &Clip{Rate: rate, Channels: channels}
	switch depth {
	case 8, 16:
		c.BitDepth = 16
		c.Data = make([]byte, 2*len(samples))
		for i, s := range samples {
			if depth == 8 {
				s = (s - 128) << 8
			}
			binary.LittleEndian.PutUint16(c.Data[2*i:], uint16(int16(s)))
		}
	case 24, 32:
		c.BitDepth = 32
		c.Data = make([]byte, 4*len(samples))
		for i, s := range samples {
			if depth == 24 {
				s <<= 8
			}
			binary.LittleEndian.PutUint32(c.Data[4*i:], uint32(int32(s)))
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, depth)
	}
	return c, nil
}

// intBuffer returns c as a go-audio buffer.
func (c *Clip) intBuffer() *audio.IntBuffer {
	n := c.BitDepth / 8
	b := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: c.Channels, SampleRate: c.Rate},
		SourceBitDepth: c.BitDepth,
		Data:           make([]int, len(c.Data)/n),
	}
	for i := range b.Data {
		if n == 2 {
			b.Data[i] = int(int16(binary.LittleEndian.Uint16(c.Data[2*i:])))
		} else {
			b.Data[i] = int(int32(binary.LittleEndian.Uint32(c.Data[4*i:])))
		}
	}
	return b
}

// WriteWAV writes c as a WAV file to w.
func (c *Clip) WriteWAV(w io.WriteSeeker) error {
	const pcmFormat = 1
	enc := wav.NewEncoder(w, c.Rate, c.BitDepth, c.Channels, pcmFormat)
	err := enc.Write(c.intBuffer())
	if err != nil {
		return err
	}
	return enc.Close()
}
