// Package logtail provides the bounded trailing view of the live server
// output: on demand via Tail, continuously via Follower.
package logtail

import (
	"context"

	"mcadmin/internal/dockercli"
)

// Tailer returns up to n trailing log lines, most recent last. Short output
// comes back as-is, never padded.
type Tailer interface {
	Tail(ctx context.Context, n int) ([]string, error)
}

// DockerTailer reads the container's log stream.
type DockerTailer struct {
	CLI *dockercli.CLI
}

func (t *DockerTailer) Tail(ctx context.Context, n int) ([]string, error) {
	return t.CLI.Logs(ctx, n)
}
