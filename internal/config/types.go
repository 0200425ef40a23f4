// Package config resolves, parses, validates, and defaults moodmate configuration.
package config

// Config is the fully materialized runtime configuration used by moodmate.
type Config struct {
	Classifier ClassifierConfig
	Camera     CameraConfig
	Sampling   SamplingConfig
	Tracker    TrackerConfig
	Reaction   ReactionConfig
	Notify     NotifyConfig
	Speech     SpeechConfig
	Playlist   PlaylistConfig
	Jokes      JokesConfig
	Debug      DebugConfig
}

// ClassifierConfig selects the emotion inference backend and its endpoint.
type ClassifierConfig struct {
	Backend   string
	Endpoint  string
	TimeoutMS int
}

// CameraConfig controls webcam device selection and capture geometry.
type CameraConfig struct {
	Device string
	Width  int
	Height int
}

// SamplingConfig controls the frame sampling cadence.
type SamplingConfig struct {
	IntervalMS int
}

// TrackerConfig controls the emotion stability window.
type TrackerConfig struct {
	Window          int
	StableThreshold int
}

// ReactionConfig controls verdict polling and reaction debounce.
type ReactionConfig struct {
	PollMS       int
	DebounceMS   int
	PauseOnReact bool
}

// NotifyConfig controls desktop notifications and audio cue behavior.
type NotifyConfig struct {
	Enable         bool
	AppName        string
	SoundEnable    bool
	ErrorTimeoutMS int
}

// SpeechConfig controls spoken mood prompts.
type SpeechConfig struct {
	Enable  bool
	Command CommandConfig
}

// PlaylistConfig holds the Spotify playlist targets for the play reaction.
type PlaylistConfig struct {
	URI    string
	WebURL string
}

// JokesConfig controls the remote joke source.
type JokesConfig struct {
	Endpoint string
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableFrameDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
