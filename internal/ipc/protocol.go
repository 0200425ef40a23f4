// Package ipc provides the unix-socket control channel for a running
// moodmate session: JSON request/response, one line each way.
package ipc

// Command names accepted by a session handler.
const (
	CommandStatus = "status"
	CommandMood   = "mood"
	CommandPause  = "pause"
	CommandResume = "resume"
	CommandStop   = "stop"
)

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Mood    string `json:"mood,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
