package config

import (
	"github.com/moodmatehq/moodmate/internal/classifier"
	"github.com/moodmatehq/moodmate/internal/reaction"
	"github.com/moodmatehq/moodmate/internal/sampler"
	"github.com/moodmatehq/moodmate/internal/tracker"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	speech := "espeak-ng"

	return Config{
		Classifier: ClassifierConfig{
			Backend:   classifier.BackendHTTP,
			Endpoint:  "http://127.0.0.1:9000",
			TimeoutMS: 5000,
		},
		Camera: CameraConfig{
			Device: "0",
			Width:  640,
			Height: 480,
		},
		Sampling: SamplingConfig{
			IntervalMS: int(sampler.DefaultInterval.Milliseconds()),
		},
		Tracker: TrackerConfig{
			Window:          tracker.DefaultWindow,
			StableThreshold: tracker.DefaultStableThreshold,
		},
		Reaction: ReactionConfig{
			PollMS:       int(reaction.DefaultPoll.Milliseconds()),
			DebounceMS:   int(reaction.DefaultDebounce.Milliseconds()),
			PauseOnReact: true,
		},
		Notify: NotifyConfig{
			Enable:         true,
			AppName:        "moodmate",
			SoundEnable:    true,
			ErrorTimeoutMS: 1600,
		},
		Speech: SpeechConfig{
			Enable:  true,
			Command: CommandConfig{Raw: speech, Argv: mustParseArgv(speech)},
		},
		Playlist: PlaylistConfig{
			URI:    "spotify:playlist:3Qk05c3iAoUQiHRb5UdfFJ",
			WebURL: "https://open.spotify.com/playlist/3Qk05c3iAoUQiHRb5UdfFJ?autoplay=true",
		},
		Jokes: JokesConfig{
			Endpoint: "https://v2.jokeapi.dev/joke/Any?safe-mode&type=single",
		},
		Debug: DebugConfig{},
	}
}
