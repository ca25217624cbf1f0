package texttospeech

import "fmt"

// AudioFormat is one of the closed set of audio encodings the synthesize
// endpoint can produce. The zero value is invalid.
type AudioFormat int

const (
	// FormatOGG is Ogg with the Opus codec.
	FormatOGG AudioFormat = iota + 1
	// FormatWAV is uncompressed WAV.
	FormatWAV
	// FormatFLAC is lossless FLAC.
	FormatFLAC
)

var audioFormatMediaTypes = map[AudioFormat]string{
	FormatOGG:  "audio/ogg; codecs=opus",
	FormatWAV:  "audio/wav",
	FormatFLAC: "audio/flac",
}

// MediaType returns the Accept media type for the format, or an error for
// values outside the enumeration.
func (f AudioFormat) MediaType() (string, error) {
	mediaType, ok := audioFormatMediaTypes[f]
	if !ok {
		return "", fmt.Errorf("unknown audio format %d", int(f))
	}
	return mediaType, nil
}

func (f AudioFormat) String() string {
	switch f {
	case FormatOGG:
		return "ogg"
	case FormatWAV:
		return "wav"
	case FormatFLAC:
		return "flac"
	default:
		return fmt.Sprintf("audioformat(%d)", int(f))
	}
}

// ParseAudioFormat resolves a format name such as "wav" to its AudioFormat.
func ParseAudioFormat(name string) (AudioFormat, error) {
	switch name {
	case "ogg":
		return FormatOGG, nil
	case "wav":
		return FormatWAV, nil
	case "flac":
		return FormatFLAC, nil
	default:
		return 0, fmt.Errorf("unknown audio format %q (expected ogg, wav or flac)", name)
	}
}
