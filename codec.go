package wav

import "fmt"

const (
	wavFormatPCM        = 0x0001
	wavFormatMSADPCM    = 0x0002
	wavFormatIEEEFloat  = 0x0003
	wavFormatALaw       = 0x0006
	wavFormatMuLaw      = 0x0007
	wavFormatIMAADPCM   = 0x0011
	wavFormatTrueSpeech = 0x0022
	wavFormatGSM610     = 0x0031
	wavFormatMP3        = 0x0055
	wavFormatVoxware    = 0x181C
	wavFormatExtensible = 0xFFFE

	// Format tags of the PCM layouts.
	FormatPCM        = wavFormatPCM
	FormatIEEEFloat  = wavFormatIEEEFloat
	FormatExtensible = wavFormatExtensible

	// CodecPCM is the codec name shared by integer and IEEE float PCM.
	CodecPCM = "pcm"
	// CodecUnknown is returned for twoccs missing from the codec table.
	CodecUnknown = "unknown"
)

var wavCodecs = map[uint16]string{
	0x0000:              CodecUnknown,
	wavFormatPCM:        CodecPCM,
	wavFormatMSADPCM:    "ms-adpcm",
	wavFormatIEEEFloat:  CodecPCM,
	wavFormatALaw:       "pcm-alaw",
	wavFormatMuLaw:      "pcm-mulaw",
	wavFormatIMAADPCM:   "ima-adpcm-ms",
	wavFormatTrueSpeech: "truespeech",
	wavFormatGSM610:     "gsm-ms",
	wavFormatMP3:        "mp3",
	0x0061:              "adpcm-dk4",
	0x0062:              "adpcm-dk3",
	0x0401:              "imc",
	0x0402:              "iac",
	0x0500:              "on2avc-500",
	0x0501:              "on2avc-501",
	wavFormatVoxware:    "voxware",
}

// CodecName resolves a WAV twocc to its codec name. Unknown tags resolve to
// CodecUnknown.
func CodecName(twocc uint16) string {
	if name, ok := wavCodecs[twocc]; ok {
		return name
	}

	return CodecUnknown
}

// FormatTagString returns a printable form of a twocc, e.g. "0x0001 (pcm)".
func FormatTagString(twocc uint16) string {
	return fmt.Sprintf("0x%04X (%s)", twocc, CodecName(twocc))
}
