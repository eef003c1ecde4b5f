package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mcadmin/internal/dockercli"
	"mcadmin/internal/models"
)

const (
	outputTailLimit   = 8192
	stopTimeoutSec    = 30
	restartWaitSec    = 120
	restartPollPeriod = 2 * time.Second

	backupTimeout  = 900 * time.Second
	playerTimeout  = 60 * time.Second
	onboardTimeout = 120 * time.Second
)

// Runner executes jobs against the live server: container control goes
// through the docker CLI, player management and backups shell out to the
// repo's infra scripts.
type Runner struct {
	RepoRoot string
	Docker   *dockercli.CLI
}

func NewRunner(repoRoot, container string) *Runner {
	return &Runner{RepoRoot: repoRoot, Docker: dockercli.New(container)}
}

func (r *Runner) Execute(ctx context.Context, job *models.Job) (string, string, error) {
	switch Kind(job.Action) {
	case ServerStart:
		return r.controlResult(ctx, r.Docker.Start(ctx))
	case ServerStop:
		return r.controlResult(ctx, r.Docker.Stop(ctx, stopTimeoutSec))
	case ServerRestart:
		return r.restart(ctx)
	case ServerBackup:
		return r.runScript(ctx, backupTimeout, "infra/backup.sh")
	case PlayerAdd:
		params, err := playerParams(job)
		if err != nil {
			return "", "", err
		}
		return r.runScript(ctx, playerTimeout, playerArgs("add", params)...)
	case PlayerRemove:
		params, err := playerParams(job)
		if err != nil {
			return "", "", err
		}
		return r.runScript(ctx, playerTimeout, "infra/player.sh", "remove", params.Name)
	case PlayerOp:
		params, err := playerParams(job)
		if err != nil {
			return "", "", err
		}
		return r.runScript(ctx, playerTimeout, "infra/player.sh", "op", params.Name)
	case PlayerDeop:
		params, err := playerParams(job)
		if err != nil {
			return "", "", err
		}
		return r.runScript(ctx, playerTimeout, "infra/player.sh", "deop", params.Name)
	case PlayerOnboard:
		params, err := playerParams(job)
		if err != nil {
			return "", "", err
		}
		args := []string{"infra/onboard.sh", params.Name}
		if params.Op {
			args = append(args, "--op")
		}
		return r.runScript(ctx, onboardTimeout, args...)
	default:
		return "", "", actionErrorf("unknown action: %s", job.Action)
	}
}

func playerArgs(verb string, params *PlayerParams) []string {
	args := []string{"infra/player.sh", verb, params.Name}
	if params.Op {
		args = append(args, "--op")
	}
	return args
}

func playerParams(job *models.Job) (*PlayerParams, error) {
	var params PlayerParams
	if err := json.Unmarshal(job.PayloadJSON, &params); err != nil {
		return nil, actionErrorf("job %s has no player parameters", job.ID)
	}
	if params.Name == "" {
		return nil, actionErrorf("job %s has no player parameters", job.ID)
	}
	return &params, nil
}

func (r *Runner) controlResult(ctx context.Context, err error) (string, string, error) {
	if err != nil {
		return "", "", &ActionError{Message: err.Error()}
	}
	state, _, exists, stateErr := r.Docker.State(ctx)
	if stateErr != nil || !exists {
		// The control verb succeeded; report that even if the follow-up
		// inspect could not run.
		return "Container state: unknown", "", nil
	}
	return fmt.Sprintf("Container state: %s", state), "", nil
}

// restart issues the restart and then waits for the container to come back
// running and healthy (or healthcheck-less) before declaring success.
func (r *Runner) restart(ctx context.Context) (string, string, error) {
	if err := r.Docker.Restart(ctx, stopTimeoutSec); err != nil {
		return "", "", &ActionError{Message: err.Error()}
	}

	deadline := time.Now().Add(restartWaitSec * time.Second)
	for time.Now().Before(deadline) {
		state, health, exists, err := r.Docker.State(ctx)
		if err != nil {
			return "", "", &ActionError{Message: err.Error()}
		}
		if exists && state == "running" && (health == "healthy" || health == "none") {
			return fmt.Sprintf("Container state: %s, health: %s", state, health), "", nil
		}
		select {
		case <-ctx.Done():
			return "", "", &ActionError{Message: "restart interrupted"}
		case <-time.After(restartPollPeriod):
		}
	}
	return "", "", &ActionError{Message: "Container did not become healthy within the restart timeout"}
}

func (r *Runner) runScript(ctx context.Context, timeout time.Duration, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", args...)
	cmd.Dir = r.RepoRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outTail := Truncate(stdout.String())
	errTail := Truncate(stderr.String())

	if ctx.Err() == context.DeadlineExceeded {
		return outTail, errTail, actionErrorf("Command timed out after %s: bash %s", timeout, strings.Join(args, " "))
	}
	if err != nil {
		message := errTail
		if message == "" {
			message = outTail
		}
		if message == "" {
			message = fmt.Sprintf("Command failed: bash %s: %v", strings.Join(args, " "), err)
		}
		return outTail, errTail, &ActionError{Message: message}
	}
	return outTail, errTail, nil
}

// Truncate keeps only the trailing output to bound what a job record stores.
func Truncate(s string) string {
	if len(s) <= outputTailLimit {
		return s
	}
	return s[len(s)-outputTailLimit:]
}
