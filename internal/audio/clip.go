package audio

import (
	"encoding/base64"
	"fmt"
)

// EncodeClip turns an ordered list of base64 PCM16 fragments into a playable
// WAV clip: decode, concatenate, normalize loudness, wrap in a RIFF header.
// Fragments are 24kHz little-endian mono. An empty list yields an empty
// buffer, not an error.
func EncodeClip(fragments []string, cfg NormalizeConfig) ([]byte, error) {
	if len(fragments) == 0 {
		return []byte{}, nil
	}

	var pcm []byte
	for i, frag := range fragments {
		data, err := base64.StdEncoding.DecodeString(frag)
		if err != nil {
			return nil, fmt.Errorf("decode audio fragment %d: %w", i, err)
		}
		pcm = append(pcm, data...)
	}

	samples := PCMBytesToInt16(pcm)
	Normalize(samples, cfg)

	return EncodeWAV(Int16ToPCMBytes(samples), SampleRate, Channels, BitsPerSample), nil
}
