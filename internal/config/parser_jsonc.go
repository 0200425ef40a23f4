package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Classifier *jsoncClassifier `json:"classifier"`
	Camera     *jsoncCamera     `json:"camera"`
	Sampling   *jsoncSampling   `json:"sampling"`
	Tracker    *jsoncTracker    `json:"tracker"`
	Reaction   *jsoncReaction   `json:"reaction"`
	Notify     *jsoncNotify     `json:"notify"`
	Speech     *jsoncSpeech     `json:"speech"`
	Playlist   *jsoncPlaylist   `json:"playlist"`
	Jokes      *jsoncJokes      `json:"jokes"`
	Debug      *jsoncDebug      `json:"debug"`
}

type jsoncClassifier struct {
	Backend   *string `json:"backend"`
	Endpoint  *string `json:"endpoint"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncCamera struct {
	Device *string `json:"device"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

type jsoncSampling struct {
	IntervalMS *int `json:"interval_ms"`
}

type jsoncTracker struct {
	Window          *int `json:"window"`
	StableThreshold *int `json:"stable_threshold"`
}

type jsoncReaction struct {
	PollMS       *int  `json:"poll_ms"`
	DebounceMS   *int  `json:"debounce_ms"`
	PauseOnReact *bool `json:"pause_on_react"`
}

type jsoncNotify struct {
	Enable         *bool   `json:"enable"`
	AppName        *string `json:"app_name"`
	SoundEnable    *bool   `json:"sound_enable"`
	ErrorTimeoutMS *int    `json:"error_timeout_ms"`
}

type jsoncSpeech struct {
	Enable  *bool   `json:"enable"`
	Command *string `json:"command"`
}

type jsoncPlaylist struct {
	URI    *string `json:"uri"`
	WebURL *string `json:"web_url"`
}

type jsoncJokes struct {
	Endpoint *string `json:"endpoint"`
}

type jsoncDebug struct {
	FrameDump *bool `json:"frame_dump"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if payload.Classifier != nil {
		if payload.Classifier.Backend != nil {
			cfg.Classifier.Backend = strings.ToLower(strings.TrimSpace(*payload.Classifier.Backend))
		}
		if payload.Classifier.Endpoint != nil {
			cfg.Classifier.Endpoint = strings.TrimSpace(*payload.Classifier.Endpoint)
		}
		if payload.Classifier.TimeoutMS != nil {
			cfg.Classifier.TimeoutMS = *payload.Classifier.TimeoutMS
		}
	}

	if payload.Camera != nil {
		if payload.Camera.Device != nil {
			cfg.Camera.Device = strings.TrimSpace(*payload.Camera.Device)
		}
		if payload.Camera.Width != nil {
			cfg.Camera.Width = *payload.Camera.Width
		}
		if payload.Camera.Height != nil {
			cfg.Camera.Height = *payload.Camera.Height
		}
	}

	if payload.Sampling != nil && payload.Sampling.IntervalMS != nil {
		cfg.Sampling.IntervalMS = *payload.Sampling.IntervalMS
	}

	if payload.Tracker != nil {
		if payload.Tracker.Window != nil {
			cfg.Tracker.Window = *payload.Tracker.Window
		}
		if payload.Tracker.StableThreshold != nil {
			cfg.Tracker.StableThreshold = *payload.Tracker.StableThreshold
		}
	}

	if payload.Reaction != nil {
		if payload.Reaction.PollMS != nil {
			cfg.Reaction.PollMS = *payload.Reaction.PollMS
		}
		if payload.Reaction.DebounceMS != nil {
			cfg.Reaction.DebounceMS = *payload.Reaction.DebounceMS
		}
		if payload.Reaction.PauseOnReact != nil {
			cfg.Reaction.PauseOnReact = *payload.Reaction.PauseOnReact
		}
	}

	if payload.Notify != nil {
		if payload.Notify.Enable != nil {
			cfg.Notify.Enable = *payload.Notify.Enable
		}
		if payload.Notify.AppName != nil {
			cfg.Notify.AppName = strings.TrimSpace(*payload.Notify.AppName)
		}
		if payload.Notify.SoundEnable != nil {
			cfg.Notify.SoundEnable = *payload.Notify.SoundEnable
		}
		if payload.Notify.ErrorTimeoutMS != nil {
			cfg.Notify.ErrorTimeoutMS = *payload.Notify.ErrorTimeoutMS
		}
	}

	if payload.Speech != nil {
		if payload.Speech.Enable != nil {
			cfg.Speech.Enable = *payload.Speech.Enable
		}
		if payload.Speech.Command != nil {
			raw := *payload.Speech.Command
			argv, err := parseArgv(raw)
			if err != nil {
				return fmt.Errorf("invalid speech.command: %w", err)
			}
			cfg.Speech.Command = CommandConfig{Raw: raw, Argv: argv}
		}
	}

	if payload.Playlist != nil {
		if payload.Playlist.URI != nil {
			cfg.Playlist.URI = strings.TrimSpace(*payload.Playlist.URI)
		}
		if payload.Playlist.WebURL != nil {
			cfg.Playlist.WebURL = strings.TrimSpace(*payload.Playlist.WebURL)
		}
	}

	if payload.Jokes != nil && payload.Jokes.Endpoint != nil {
		cfg.Jokes.Endpoint = strings.TrimSpace(*payload.Jokes.Endpoint)
	}

	if payload.Debug != nil && payload.Debug.FrameDump != nil {
		cfg.Debug.EnableFrameDump = *payload.Debug.FrameDump
	}

	return nil
}

// normalizeJSONC blanks comments and drops trailing commas in one scan,
// preserving byte offsets for line/column error reporting.
func normalizeJSONC(content string) (string, error) {
	out := []byte(content)

	const (
		stateValue = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateValue
	escape := false
	commaAt := -1

	blank := func(i int) {
		switch out[i] {
		case '\n', '\r', '\t':
		default:
			out[i] = ' '
		}
	}

	for i := 0; i < len(out); i++ {
		ch := out[i]

		switch state {
		case stateString:
			if escape {
				escape = false
			} else if ch == '\\' {
				escape = true
			} else if ch == '"' {
				state = stateValue
			}

		case stateLineComment:
			if ch == '\n' || ch == '\r' {
				state = stateValue
			} else {
				blank(i)
			}

		case stateBlockComment:
			if ch == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = stateValue
			} else {
				blank(i)
			}

		default:
			switch {
			case ch == '"':
				state = stateString
				commaAt = -1
			case ch == '/' && i+1 < len(out) && out[i+1] == '/':
				out[i], out[i+1] = ' ', ' '
				i++
				state = stateLineComment
			case ch == '/' && i+1 < len(out) && out[i+1] == '*':
				out[i], out[i+1] = ' ', ' '
				i++
				state = stateBlockComment
			case ch == ',':
				commaAt = i
			case ch == '}' || ch == ']':
				if commaAt >= 0 {
					out[commaAt] = ' '
				}
				commaAt = -1
			case ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t':
				// whitespace between a comma and a closing brace keeps the
				// pending trailing comma candidate alive
			default:
				commaAt = -1
			}
		}
	}

	if state == stateBlockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return string(out), nil
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
