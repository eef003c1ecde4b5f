package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcadmin/internal/actions"
	"mcadmin/internal/auth"
	"mcadmin/internal/config"
	"mcadmin/internal/database"
	"mcadmin/internal/jobs"
	"mcadmin/internal/models"
	"mcadmin/internal/status"
	"mcadmin/internal/whitelist"
)

const testPassword = "test-password"

type fakeInspector struct {
	state  string
	health string
	exists bool
}

func (f *fakeInspector) State(ctx context.Context) (string, string, bool, error) {
	return f.state, f.health, f.exists, nil
}

type recordingTailer struct {
	lines []string
	lastN int
}

func (f *recordingTailer) Tail(ctx context.Context, n int) ([]string, error) {
	f.lastN = n
	if len(f.lines) > n {
		return f.lines[len(f.lines)-n:], nil
	}
	return f.lines, nil
}

type fakeExecutor struct {
	fn func(ctx context.Context, job *models.Job) (string, string, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, job *models.Job) (string, string, error) {
	if f.fn == nil {
		return "", "", nil
	}
	return f.fn(ctx, job)
}

type testEnv struct {
	server   *httptest.Server
	store    *jobs.Store
	tailer   *recordingTailer
	repoRoot string
}

func newTestEnv(t *testing.T, exec jobs.Executor) *testEnv {
	t.Helper()

	repoRoot := t.TempDir()
	settings := &config.Settings{
		Password:      testPassword,
		SessionSecret: "test-session-secret",
		JobHistory:    25,
		PlayerWorkers: 2,
	}

	db, err := database.New(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	store := jobs.NewStore(db, settings.JobHistory)
	queue := jobs.NewQueue(store, exec, settings.PlayerWorkers)
	queue.Start()
	t.Cleanup(queue.Stop)

	wl := whitelist.NewRepository(repoRoot)
	tailer := &recordingTailer{lines: []string{"There are 0 of a max of 20 players online"}}
	router := NewRouter(Deps{
		Settings:   settings,
		Store:      store,
		Dispatcher: jobs.NewDispatcher(store, queue),
		Aggregator: status.NewAggregator(&fakeInspector{state: "running", health: "healthy", exists: true}, tailer, wl),
		Tailer:     tailer,
		Whitelist:  wl,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, store: store, tailer: tailer, repoRoot: repoRoot}
}

type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
	csrf string
}

func newAPIClient(t *testing.T, env *testEnv) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: env.server.URL, http: &http.Client{Jar: jar}}
}

func (c *apiClient) login(password string) *http.Response {
	resp, err := c.http.PostForm(c.base+"/login", url.Values{"password": {password}})
	require.NoError(c.t, err)
	if resp.StatusCode == http.StatusOK {
		var body models.LoginResponse
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&body))
		c.csrf = body.CSRFToken
	}
	resp.Body.Close()
	return resp
}

func (c *apiClient) get(path string) *http.Response {
	resp, err := c.http.Get(c.base + path)
	require.NoError(c.t, err)
	return resp
}

func (c *apiClient) post(path, body string, withCSRF bool) *http.Response {
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withCSRF {
		req.Header.Set(auth.CSRFHeader, c.csrf)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func waitJob(t *testing.T, c *apiClient, id string) models.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp := c.get("/api/jobs/" + id)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		job := decode[models.Job](t, resp)
		if job.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return models.Job{}
}

func TestAPIRequiresSession(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)

	for _, path := range []string{"/api/status", "/api/logs", "/api/whitelist", "/api/jobs"} {
		resp := c.get(path)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		body := decode[map[string]string](t, resp)
		assert.Equal(t, "Authentication required", body["detail"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)

	resp := c.login("wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStatusEndpointReturnsSnapshot(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	writeTestWhitelist(t, env.repoRoot, `[{"name":"Ash"}]`)

	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.get("/api/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[models.StatusSnapshot](t, resp)
	assert.Equal(t, "running", snap.ContainerState)
	assert.Equal(t, "healthy", snap.Health)
	assert.Equal(t, 1, snap.WhitelistCount)
	require.NotNil(t, snap.PlayersOnline)
	assert.Equal(t, 0, *snap.PlayersOnline)
}

func TestLogsTailClamped(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.get("/api/logs?tail=5000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1000, env.tailer.lastN)

	resp = c.get("/api/logs?tail=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 50, env.tailer.lastN)

	resp = c.get("/api/logs?tail=nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMutationsRequireCSRF(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.post("/api/actions/backup", "", false)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = c.post("/api/onboard", `{"name":"Misty"}`, false)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	list, err := env.store.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvalidPlayerNameCreatesNoJob(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.post("/api/players/add", `{"name":"   "}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.NotEmpty(t, body["detail"])

	list, err := env.store.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBackupActionRunsToCompletion(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{
		fn: func(ctx context.Context, job *models.Job) (string, string, error) {
			return "backup ok", "", nil
		},
	})
	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.post("/api/actions/backup", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[models.JobSubmitResponse](t, resp)
	require.NotEmpty(t, submitted.JobID)
	assert.Equal(t, models.JobPending, submitted.Status)

	job := waitJob(t, c, submitted.JobID)
	assert.Equal(t, models.JobSucceeded, job.Status)
	assert.Equal(t, "backup ok", job.StdoutTail)

	resp = c.get("/api/jobs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[models.JobListResponse](t, resp)
	require.Len(t, listed.Jobs, 1)
	assert.Equal(t, submitted.JobID, listed.Jobs[0].ID)
}

func TestJobNotFound(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.get("/api/jobs/ffffffff-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Job not found", body["detail"])
}

func TestPlayerAddAppearsInWhitelistAfterSuccess(t *testing.T) {
	var env *testEnv
	env = newTestEnv(t, &fakeExecutor{
		fn: func(ctx context.Context, job *models.Job) (string, string, error) {
			// Stand-in for the player script: apply the whitelist change
			// as part of job execution, i.e. at completion time.
			if actions.Kind(job.Action) == actions.PlayerAdd {
				var params actions.PlayerParams
				if err := json.Unmarshal(job.PayloadJSON, &params); err != nil {
					return "", "", err
				}
				appendTestWhitelist(t, env.repoRoot, params.Name)
				return "added " + params.Name, "", nil
			}
			return "", "", nil
		},
	})
	writeTestWhitelist(t, env.repoRoot, `[{"name":"Brock"}]`)

	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	before := decode[models.StatusSnapshot](t, c.get("/api/status"))

	resp := c.post("/api/players/add", `{"name":"Ash"}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[models.JobSubmitResponse](t, resp)

	listed := decode[models.JobListResponse](t, c.get("/api/jobs"))
	require.NotEmpty(t, listed.Jobs)
	assert.Equal(t, "player.add", listed.Jobs[0].Action)

	job := waitJob(t, c, submitted.JobID)
	require.Equal(t, models.JobSucceeded, job.Status)

	names := decode[models.WhitelistResponse](t, c.get("/api/whitelist"))
	assert.Contains(t, names.Names, "Ash")

	after := decode[models.StatusSnapshot](t, c.get("/api/status"))
	assert.Equal(t, before.WhitelistCount+1, after.WhitelistCount)
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t, &fakeExecutor{})
	c := newAPIClient(t, env)
	require.Equal(t, http.StatusOK, c.login(testPassword).StatusCode)

	resp := c.post("/logout", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.get("/api/status")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func writeTestWhitelist(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "whitelist.json"), []byte(content), 0o644))
}

func appendTestWhitelist(t *testing.T, root, name string) {
	t.Helper()
	path := filepath.Join(root, "data", "whitelist.json")
	var entries []map[string]string
	if data, err := os.ReadFile(path); err == nil {
		json.Unmarshal(data, &entries)
	}
	entries = append(entries, map[string]string{"name": name})
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
