package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	wav "github.com/cwbudde/wavmux"
)

const (
	sampleRate = 48000
	// samplesPerPacket is how many samples go into one muxed packet.
	samplesPerPacket = 1024
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	log.Printf("generating a %f sec sine wav at %f hz", *length, *frequency)

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}
	defer file.Close()

	mux := wav.NewMuxer(file, &wav.FmtChunk{
		FormatTag:     wav.FormatPCM,
		NumChannels:   1,
		SampleRate:    sampleRate,
		BlockAlign:    2,
		BitsPerSample: 16,
	})

	if err := mux.WriteHeader(); err != nil {
		return err
	}

	numSamples := int(sampleRate * *length)
	pkt := &wav.Packet{}

	for start := 0; start < numSamples; start += samplesPerPacket {
		end := min(start+samplesPerPacket, numSamples)

		pkt.Data = pkt.Data[:0]
		for i := start; i < end; i++ {
			fv := math.Sin(float64(i) / sampleRate * *frequency * 2 * math.Pi)
			pkt.Data = binary.LittleEndian.AppendUint16(pkt.Data, uint16(int16(fv*math.MaxInt16)))
		}

		if err := mux.WritePacket(pkt); err != nil {
			return err
		}
	}

	return mux.Close()
}
