package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"mcadmin/internal/actions"
	"mcadmin/internal/models"
)

// Hooks receive poll results. Nil hooks are skipped. OnError sees every
// swallowed poll failure; the loops keep ticking regardless.
type Hooks struct {
	OnStatus       func(*models.StatusSnapshot)
	OnLogs         func([]string)
	OnWhitelist    func([]string)
	OnJobs         func([]models.Job)
	OnUnauthorized func()
	OnError        func(stage string, err error)
}

// Poller owns the dashboard refresh loops: jobs on a short interval, status
// on a longer one. It has an explicit lifecycle so navigation or logout can
// tear the intervals down instead of leaking tickers.
type Poller struct {
	client *Client
	hooks  Hooks

	jobsEvery   time.Duration
	statusEvery time.Duration
	logTail     int

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	authOnce sync.Once
}

func NewPoller(c *Client, hooks Hooks, jobsEvery, statusEvery time.Duration) *Poller {
	if jobsEvery <= 0 {
		jobsEvery = 3 * time.Second
	}
	if statusEvery <= 0 {
		statusEvery = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		client:      c,
		hooks:       hooks,
		jobsEvery:   jobsEvery,
		statusEvery: statusEvery,
		logTail:     200,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start kicks off the initial load (status, logs, whitelist, jobs fetched
// concurrently; one failing does not block the others) and then the two
// polling loops.
func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		var initial sync.WaitGroup
		for _, fetch := range []func(){p.pollStatus, p.pollLogs, p.pollWhitelist, p.pollJobs} {
			initial.Add(1)
			go func(fetch func()) {
				defer initial.Done()
				fetch()
			}(fetch)
		}
		initial.Wait()
	}()

	p.wg.Add(2)
	go p.loop(p.jobsEvery, p.pollJobs)
	go p.loop(p.statusEvery, p.pollStatus)
}

// Stop cancels the loops and waits for them. Safe to call more than once.
func (p *Poller) Stop() {
	p.cancel()
	p.wg.Wait()
}

// SubmitServer submits a server-control action and refreshes jobs right
// away so the new record shows up before the next scheduled tick.
func (p *Poller) SubmitServer(ctx context.Context, kind actions.Kind) (string, error) {
	id, err := p.client.ServerAction(ctx, kind)
	if err != nil {
		return "", p.checkAuth(err)
	}
	p.pollJobs()
	return id, nil
}

// SubmitPlayer submits a player action; on success it refreshes both jobs
// and the whitelist.
func (p *Poller) SubmitPlayer(ctx context.Context, kind actions.Kind, name string, op bool) (string, error) {
	id, err := p.client.PlayerAction(ctx, kind, name, op)
	if err != nil {
		return "", p.checkAuth(err)
	}
	p.pollJobs()
	p.pollWhitelist()
	return id, nil
}

func (p *Poller) loop(every time.Duration, poll func()) {
	defer p.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

func (p *Poller) pollStatus() {
	snap, err := p.client.Status(p.ctx)
	if p.fail("status", err) {
		return
	}
	if p.hooks.OnStatus != nil {
		p.hooks.OnStatus(snap)
	}
}

func (p *Poller) pollLogs() {
	lines, err := p.client.Logs(p.ctx, p.logTail)
	if p.fail("logs", err) {
		return
	}
	if p.hooks.OnLogs != nil {
		p.hooks.OnLogs(lines)
	}
}

func (p *Poller) pollWhitelist() {
	names, err := p.client.Whitelist(p.ctx)
	if p.fail("whitelist", err) {
		return
	}
	if p.hooks.OnWhitelist != nil {
		p.hooks.OnWhitelist(names)
	}
}

func (p *Poller) pollJobs() {
	list, err := p.client.Jobs(p.ctx)
	if p.fail("jobs", err) {
		return
	}
	if p.hooks.OnJobs != nil {
		p.hooks.OnJobs(list)
	}
}

// fail swallows poll errors so a transient backend outage self-heals on the
// next tick. An expired session is the one global condition: the
// unauthorized hook fires exactly once and polling stops. Failures after
// shutdown are not reported; they are just canceled requests.
func (p *Poller) fail(stage string, err error) bool {
	if err == nil {
		return false
	}
	p.checkAuth(err)
	if errors.Is(err, ErrUnauthorized) || p.ctx.Err() != nil {
		return true
	}
	if p.hooks.OnError != nil {
		p.hooks.OnError(stage, err)
	}
	return true
}

func (p *Poller) checkAuth(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		p.authOnce.Do(func() {
			if p.hooks.OnUnauthorized != nil {
				p.hooks.OnUnauthorized()
			}
			p.cancel()
		})
	}
	return err
}
