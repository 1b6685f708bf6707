package dashboard

import "github.com/IshaanNene/scrapewatch/internal/types"

// Tone is the colour class a status label renders with.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneActive
	ToneSuccess
	ToneError
)

func (t Tone) String() string {
	switch t {
	case ToneActive:
		return "active"
	case ToneSuccess:
		return "success"
	case ToneError:
		return "error"
	default:
		return "neutral"
	}
}

// MarshalText encodes the tone by name.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Classify maps a free-form status string to a Tone. Matching is a
// case-insensitive substring test and the running keywords win over the
// error keywords.
func Classify(status string) Tone {
	switch types.ClassifyStatus(status) {
	case types.StatusActive:
		return ToneActive
	case types.StatusDone:
		return ToneSuccess
	case types.StatusFailed:
		return ToneError
	default:
		return ToneNeutral
	}
}
