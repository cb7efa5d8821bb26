// This tool converts a wav file into an aiff file and stores it in the same
// folder as the source.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"

	wav "github.com/cwbudde/wavmux"
)

const (
	// floatBitDepth is the aiff bit depth IEEE float sources are converted to.
	floatBitDepth = 24
	pcm24Scale    = 1 << (floatBitDepth - 1)
)

var errUnsupportedFormat = errors.New("unsupported sample format")

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("wavtoaiff", flag.ContinueOnError)
	flagPath := flagSet.String("path", "", "The path to the wav file to convert to aiff")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *flagPath == "" {
		return errors.New("you must set the -path flag")
	}

	sourcePath := *flagPath
	if strings.HasPrefix(sourcePath, "~/") {
		usr, err := user.Current()
		if err != nil {
			return fmt.Errorf("failed to get the user home directory: %w", err)
		}

		sourcePath = strings.Replace(sourcePath, "~", usr.HomeDir, 1)
	}

	outPath := sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".aif"
	if err := convert(sourcePath, outPath); err != nil {
		return err
	}

	log.Printf("Wav file converted to %s", outPath)

	return nil
}

func convert(sourcePath, outPath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", sourcePath, err)
	}
	defer file.Close()

	r := wav.NewReader(file)

	stream, err := r.ReadHeaders()
	if err != nil {
		return fmt.Errorf("invalid WAV file: %w", err)
	}

	if stream.CodecName != wav.CodecPCM {
		return fmt.Errorf("%w: %s", errUnsupportedFormat, wav.FormatTagString(stream.Fmt.EffectiveFormatTag()))
	}

	bitDepth := int(stream.Format.Bits)
	if stream.Format.Float {
		bitDepth = floatBitDepth
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	encoder := aiff.NewEncoder(outFile, stream.SampleRate, bitDepth, stream.NumChannels())
	format := stream.AudioFormat()

	for {
		pkt, err := r.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		buf, err := packetToIntBuffer(pkt.Data, stream.Format, format)
		if err != nil {
			return err
		}

		if err := encoder.Write(buf); err != nil {
			return fmt.Errorf("failed to write to %s: %w", outPath, err)
		}
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}

	return nil
}

// packetToIntBuffer decodes the interleaved samples of a PCM packet.
func packetToIntBuffer(data []byte, sf wav.SampleFormat, format *audio.Format) (*audio.IntBuffer, error) {
	width := int(sf.Bits) / 8
	if width == 0 || sf.Bits%8 != 0 {
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, sf)
	}

	if sf.Float {
		floats := make([]float32, 0, len(data)/width)

		for i := 0; i+width <= len(data); i += width {
			switch width {
			case 4:
				floats = append(floats, math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
			case 8:
				floats = append(floats, float32(math.Float64frombits(binary.LittleEndian.Uint64(data[i:]))))
			default:
				return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, sf)
			}
		}

		return float32ToIntBuffer(floats, format), nil
	}

	buf := &audio.IntBuffer{
		Format:         format,
		SourceBitDepth: int(sf.Bits),
		Data:           make([]int, 0, len(data)/width),
	}

	for i := 0; i+width <= len(data); i += width {
		var v int

		switch width {
		case 1:
			// aiff stores 8-bit samples signed.
			v = int(data[i]) - 128
		case 2:
			v = int(int16(binary.LittleEndian.Uint16(data[i:])))
		case 3:
			v = int(audio.Int24LETo32(data[i : i+3]))
		case 4:
			v = int(int32(binary.LittleEndian.Uint32(data[i:])))
		default:
			return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, sf)
		}

		buf.Data = append(buf.Data, v)
	}

	return buf, nil
}

func float32ToIntBuffer(data []float32, format *audio.Format) *audio.IntBuffer {
	intBuf := &audio.IntBuffer{
		Format:         format,
		SourceBitDepth: floatBitDepth,
		Data:           make([]int, len(data)),
	}
	for i, v := range data {
		intBuf.Data[i] = float32ToPCM24(v)
	}

	return intBuf
}

// float32ToPCM24 scales a [-1, 1] sample to a signed 24-bit integer.
func float32ToPCM24(value float32) int {
	value = clampFloat32(value, -1, 1)

	return int(min(int64(math.Round(float64(value)*pcm24Scale)), pcm24Scale-1))
}

func clampFloat32(value, lo, hi float32) float32 {
	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}
