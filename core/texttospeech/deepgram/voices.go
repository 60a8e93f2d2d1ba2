package deepgram

import "slices"

type deepgramVoice string

const defaultVoice deepgramVoice = "aura-asteria-en"

var availableVoices = []deepgramVoice{
	"aura-asteria-en", "aura-luna-en", "aura-stella-en", "aura-athena-en",
	"aura-hera-en", "aura-orion-en", "aura-arcas-en", "aura-perseus-en",
	"aura-angus-en", "aura-orpheus-en", "aura-helios-en", "aura-zeus-en",
}

func GetAvailableVoices() []deepgramVoice {
	return slices.Clone(availableVoices)
}

// IsAvailableVoice reports whether voice names a known Aura voice.
func IsAvailableVoice(voice string) bool {
	return slices.Contains(availableVoices, deepgramVoice(voice))
}
