package vispeak

// DefaultVoice is used when no voice is configured.
const DefaultVoice = "banmai"

// KnownVoices lists the voice identifiers the TTS provider documents.
// Values outside this set are passed through unmodified and may be
// rejected by the provider.
var KnownVoices = []string{
	"banmai",
	"thuminh",
	"myan",
	"giahuy",
	"lannhi",
	"leminh",
	"minhquang",
	"ngoclam",
	"linhsan",
}

// IsKnownVoice reports whether voice is in KnownVoices.
func IsKnownVoice(voice string) bool {
	for _, v := range KnownVoices {
		if v == voice {
			return true
		}
	}
	return false
}
