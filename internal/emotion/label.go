// Package emotion defines the closed label set produced by classifiers
// and the per-mood prompt text surfaced to the user.
package emotion

import "strings"

// Label is one discrete emotion category emitted for a single frame.
type Label string

const (
	Happy    Label = "happy"
	Sad      Label = "sad"
	Neutral  Label = "neutral"
	Angry    Label = "angry"
	Surprise Label = "surprise"
	Fear     Label = "fear"
	Disgust  Label = "disgust"
)

// All lists every valid label in a fixed order.
func All() []Label {
	return []Label{Happy, Sad, Neutral, Angry, Surprise, Fear, Disgust}
}

// aliases maps classifier output variants onto the canonical set.
var aliases = map[string]Label{
	"happy":     Happy,
	"happiness": Happy,
	"sad":       Sad,
	"sadness":   Sad,
	"neutral":   Neutral,
	"angry":     Angry,
	"anger":     Angry,
	"surprise":  Surprise,
	"surprised": Surprise,
	"fear":      Fear,
	"fearful":   Fear,
	"afraid":    Fear,
	"disgust":   Disgust,
	"disgusted": Disgust,
}

// Parse normalizes a raw classifier label. It reports false for labels
// outside the closed set rather than guessing a default.
func Parse(raw string) (Label, bool) {
	label, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	return label, ok
}

// Valid reports whether l is a member of the closed label set.
func Valid(l Label) bool {
	_, ok := aliases[string(l)]
	return ok
}
