// Package dockercli drives the managed game-server container through the
// docker CLI rather than the engine API, so the panel needs nothing beyond
// a docker binary and socket access.
package dockercli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type CLI struct {
	Bin       string
	Container string
}

func New(container string) *CLI {
	return &CLI{Bin: "docker", Container: container}
}

// stateFormat emits "status|health", with health "none" when the container
// has no healthcheck.
const stateFormat = `{{.State.Status}}|{{if .State.Health}}{{.State.Health.Status}}{{else}}none{{end}}`

func (c *CLI) run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.Bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func missing(stderr string) bool {
	return strings.Contains(stderr, "No such container") || strings.Contains(stderr, "No such object")
}

// State inspects the container. exists is false when the container is not
// present at all, which the status surface reports as "missing".
func (c *CLI) State(ctx context.Context) (state, health string, exists bool, err error) {
	stdout, stderr, err := c.run(ctx, "inspect", "-f", stateFormat, c.Container)
	if err != nil {
		if missing(stderr) {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("failed to inspect container %s: %s", c.Container, firstLine(stderr))
	}
	parts := strings.SplitN(strings.TrimSpace(stdout), "|", 2)
	state = parts[0]
	health = "none"
	if len(parts) == 2 && parts[1] != "" {
		health = parts[1]
	}
	return state, health, true, nil
}

// Logs returns up to tail trailing log lines, blank lines dropped. Docker
// splits container output across both streams, so they are combined.
func (c *CLI) Logs(ctx context.Context, tail int) ([]string, error) {
	cmd := exec.CommandContext(ctx, c.Bin, "logs", "--tail", fmt.Sprintf("%d", tail), c.Container)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if missing(string(out)) {
			return nil, fmt.Errorf("container %s is missing", c.Container)
		}
		return nil, fmt.Errorf("failed to read container logs: %s", firstLine(string(out)))
	}
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (c *CLI) Start(ctx context.Context) error {
	return c.control(ctx, "start")
}

func (c *CLI) Stop(ctx context.Context, timeoutSec int) error {
	return c.control(ctx, "stop", "-t", fmt.Sprintf("%d", timeoutSec))
}

func (c *CLI) Restart(ctx context.Context, timeoutSec int) error {
	return c.control(ctx, "restart", "-t", fmt.Sprintf("%d", timeoutSec))
}

func (c *CLI) control(ctx context.Context, verb string, extra ...string) error {
	args := append([]string{verb}, extra...)
	args = append(args, c.Container)
	_, stderr, err := c.run(ctx, args...)
	if err != nil {
		if missing(stderr) {
			return fmt.Errorf("container %s is missing", c.Container)
		}
		return fmt.Errorf("failed to %s container: %s", verb, firstLine(stderr))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
