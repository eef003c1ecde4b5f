// Package status builds the point-in-time snapshot the dashboard polls.
package status

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mcadmin/internal/logtail"
	"mcadmin/internal/models"
)

// playerStatusRe matches the server's periodic player-count line.
var playerStatusRe = regexp.MustCompile(`There are (\d+) of a max of (\d+) players online`)

const statusLogDepth = 250

// Inspector reports the container's process state.
type Inspector interface {
	State(ctx context.Context) (state, health string, exists bool, err error)
}

// WhitelistLister is the read side of the whitelist repository.
type WhitelistLister interface {
	List() ([]string, error)
}

type Aggregator struct {
	inspector Inspector
	tailer    logtail.Tailer
	whitelist WhitelistLister
	now       func() time.Time
}

func NewAggregator(inspector Inspector, tailer logtail.Tailer, wl WhitelistLister) *Aggregator {
	return &Aggregator{
		inspector: inspector,
		tailer:    tailer,
		whitelist: wl,
		now:       time.Now,
	}
}

// Snapshot recomputes the status from scratch; nothing is cached between
// calls. Missing data degrades field by field instead of failing the whole
// read: an absent container still reports the whitelist count.
func (a *Aggregator) Snapshot(ctx context.Context) (*models.StatusSnapshot, error) {
	names, err := a.whitelist.List()
	if err != nil {
		return nil, err
	}

	snap := &models.StatusSnapshot{
		WhitelistCount: len(names),
		UpdatedAt:      a.now().UTC().Format(time.RFC3339),
	}

	state, health, exists, err := a.inspector.State(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		snap.ContainerState = "missing"
		snap.Health = "missing"
		return snap, nil
	}

	snap.ContainerExists = true
	snap.ContainerState = state
	snap.Health = health

	lines, err := a.tailer.Tail(ctx, statusLogDepth)
	if err != nil {
		return nil, err
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "There are ") {
			line := lines[i]
			snap.LastStatusLine = &line
			if m := playerStatusRe.FindStringSubmatch(line); m != nil {
				online, _ := strconv.Atoi(m[1])
				max, _ := strconv.Atoi(m[2])
				snap.PlayersOnline = &online
				snap.PlayersMax = &max
			}
			break
		}
	}
	return snap, nil
}
