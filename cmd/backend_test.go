package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/require"

	"github.com/alt-project/adminctl/internal/config"
	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/session"
)

// adminBackend is an in-memory admin API accepting admin:s3cret.
type adminBackend struct {
	mu          sync.Mutex
	calls       map[string]int
	bodies      map[string][]json.RawMessage
	users       []domain.User
	withdrawals []domain.Withdrawal
	screenshots []domain.Screenshot
	settings    domain.Settings
}

func newAdminBackend() *adminBackend {
	return &adminBackend{
		calls:  map[string]int{},
		bodies: map[string][]json.RawMessage{},
		users: []domain.User{
			{ID: "1", Username: "alice", Email: "alice@example.com", WalletBalance: 12.5},
			{ID: "2", Username: "bob", Email: "bob@example.com", IsBanned: true},
		},
		withdrawals: []domain.Withdrawal{
			{ID: "10", User: "alice", Amount: 5, Status: domain.WithdrawalPending},
			{ID: "11", User: "bob", Amount: 7, Status: domain.WithdrawalRejected},
		},
		screenshots: []domain.Screenshot{{ID: "20", UserID: "1"}, {ID: "21", UserID: "2"}},
		settings:    domain.Settings{DefaultRewardAmount: 1, MinWithdrawalAmount: 10, PaymentGateway: "paypal"},
	}
}

func (b *adminBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func (b *adminBackend) lastBody(t *testing.T, route string, v any) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	bodies := b.bodies[route]
	require.NotEmpty(t, bodies, "no request body recorded for %s", route)
	require.NoError(t, json.Unmarshal(bodies[len(bodies)-1], v))
}

func (b *adminBackend) handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, fn func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "admin" || pass != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			var body bytes.Buffer
			_, _ = body.ReadFrom(r.Body)

			b.mu.Lock()
			defer b.mu.Unlock()
			b.calls[route]++
			if body.Len() > 0 {
				b.bodies[route] = append(b.bodies[route], json.RawMessage(body.Bytes()))
			}
			fn(w, r)
		})
	}
	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	handle("GET /api/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
		pending := 0
		for _, wd := range b.withdrawals {
			if wd.Status == domain.WithdrawalPending {
				pending++
			}
		}
		reply(w, domain.DashboardSummary{TotalUsers: len(b.users), PendingWithdrawals: pending})
	})
	handle("GET /api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.users)
	})
	handle("POST /api/admin/users/{id}/ban", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handle("POST /api/admin/users/{id}/wallet", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/withdrawals", func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		out := []domain.Withdrawal{}
		for _, wd := range b.withdrawals {
			if status == "" || wd.Status == status {
				out = append(out, wd)
			}
		}
		reply(w, out)
	})
	handle("POST /api/admin/withdrawals/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		for i := range b.withdrawals {
			if b.withdrawals[i].ID == domain.ID(r.PathValue("id")) {
				b.withdrawals[i].Status = r.PathValue("action") + "d"
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/screenshots/pending", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.screenshots)
	})
	handle("POST /api/admin/screenshots/review", func(w http.ResponseWriter, r *http.Request) {
		b.screenshots = nil
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.settings)
	})
	handle("PUT /api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type cmdEnv struct {
	backend *adminBackend
	storage *session.MemoryStorage
	clock   *testclock.Clock
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	app     *app
}

func newCmdEnv(t *testing.T, loggedIn bool) *cmdEnv {
	t.Helper()

	backend := newAdminBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	storage := session.NewMemoryStorage()
	if loggedIn {
		require.NoError(t, storage.Save(context.Background(), session.Record{
			Identity:   "admin",
			Secret:     "s3cret",
			Credential: session.EncodeCredential("admin", "s3cret"),
		}))
	}

	cfg := config.Default()
	cfg.API.BaseURL = server.URL
	cfg.Output.Colors = false

	env := &cmdEnv{
		backend: backend,
		storage: storage,
		clock:   testclock.NewClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		stdout:  new(bytes.Buffer),
		stderr:  new(bytes.Buffer),
	}
	env.app = newApp(bytes.NewReader(nil), env.stdout, env.stderr)
	env.app.cfg = cfg
	env.app.storage = storage
	env.app.clock = env.clock
	t.Cleanup(env.app.close)
	return env
}

func (e *cmdEnv) run(args ...string) error {
	root := newRootCmd(e.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// fakePrompter answers prompts from a fixed script.
type fakePrompter struct {
	lines     []string
	passwords []string
	prompts   []string
}

func (p *fakePrompter) ReadLine(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", errCancelled
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *fakePrompter) ReadPassword(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.passwords) == 0 {
		return "", errCancelled
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}
