package actions

import (
	"fmt"
	"strings"
)

// Kind identifies one of the closed set of admin operations.
type Kind string

const (
	ServerStart   Kind = "server.start"
	ServerStop    Kind = "server.stop"
	ServerRestart Kind = "server.restart"
	ServerBackup  Kind = "server.backup"
	PlayerAdd     Kind = "player.add"
	PlayerRemove  Kind = "player.remove"
	PlayerOp      Kind = "player.op"
	PlayerDeop    Kind = "player.deop"
	PlayerOnboard Kind = "player.onboard"
)

var kinds = map[Kind]bool{
	ServerStart:   true,
	ServerStop:    true,
	ServerRestart: true,
	ServerBackup:  true,
	PlayerAdd:     true,
	PlayerRemove:  true,
	PlayerOp:      true,
	PlayerDeop:    true,
	PlayerOnboard: true,
}

func (k Kind) Known() bool {
	return kinds[k]
}

// Exclusive reports whether the action touches the server process itself and
// therefore must be serialized against other such actions.
func (k Kind) Exclusive() bool {
	return strings.HasPrefix(string(k), "server.")
}

// TargetsPlayer reports whether the action requires a player name.
func (k Kind) TargetsPlayer() bool {
	return strings.HasPrefix(string(k), "player.")
}

// PlayerParams carries the inputs of a player-targeting action.
type PlayerParams struct {
	Name string `json:"name"`
	Op   bool   `json:"op,omitempty"`
}

// ValidationError rejects a submission before any job is created.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ActionError is a failure of the underlying operation while a job runs.
type ActionError struct {
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}

func actionErrorf(format string, args ...interface{}) error {
	return &ActionError{Message: fmt.Sprintf(format, args...)}
}

const (
	playerNameMin = 3
	playerNameMax = 16
)

// ValidatePlayerName trims and checks a Minecraft player name: 3-16
// characters, letters, digits and underscores only.
func ValidatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < playerNameMin || len(name) > playerNameMax {
		return "", &ValidationError{Message: fmt.Sprintf("Player names must be %d-%d characters", playerNameMin, playerNameMax)}
	}
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == '_':
		default:
			return "", &ValidationError{Message: "Player names must contain only letters, digits, or underscores"}
		}
	}
	return name, nil
}
