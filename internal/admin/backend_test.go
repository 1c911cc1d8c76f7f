package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/gateway"
	"github.com/alt-project/adminctl/internal/resource"
	"github.com/alt-project/adminctl/internal/session"
)

const (
	testUser     = "admin"
	testPassword = "s3cret"
)

// fakeBackend is an in-memory admin API.
type fakeBackend struct {
	mu          sync.Mutex
	users       []domain.User
	campaigns   []domain.Campaign
	withdrawals []domain.Withdrawal
	screenshots []domain.Screenshot
	settings    domain.Settings

	calls       map[string]*atomic.Int32
	failNext    map[string]int
	lastReview  domain.ScreenshotReview
	lastBanBody map[string]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: []domain.User{
			{ID: "1", Username: "alice", Email: "alice@example.com", WalletBalance: 10},
			{ID: "2", Username: "bob", Email: "bob@example.com", IsBanned: true},
		},
		campaigns: []domain.Campaign{{CampaignID: "c1", Name: "Spring", RewardAmount: 5, Status: "active"}},
		withdrawals: []domain.Withdrawal{
			{ID: "10", User: "alice", Amount: 25, Status: domain.WithdrawalPending},
			{ID: "11", User: "bob", Amount: 40, Status: domain.WithdrawalPending},
			{ID: "12", User: "carol", Amount: 15, Status: domain.WithdrawalApproved},
		},
		screenshots: []domain.Screenshot{{ID: "100"}, {ID: "101"}, {ID: "102"}},
		settings:    domain.Settings{DefaultRewardAmount: 1, MinWithdrawalAmount: 10, PaymentGateway: "paypal"},
		calls:       map[string]*atomic.Int32{},
		failNext:    map[string]int{},
	}
}

func (b *fakeBackend) count(route string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.calls[route]
	if !ok {
		return 0
	}
	return c.Load()
}

// fail makes the next request to route answer with status.
func (b *fakeBackend) fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext[route] = status
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, fn func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			if b.calls[route] == nil {
				b.calls[route] = &atomic.Int32{}
			}
			b.calls[route].Add(1)
			status, failing := b.failNext[route]
			delete(b.failNext, route)
			b.mu.Unlock()

			if r.Header.Get("Authorization") != "Basic "+session.EncodeCredential(testUser, testPassword) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if failing {
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "injected failure"})
				return
			}

			b.mu.Lock()
			defer b.mu.Unlock()
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
		reply(w, domain.DashboardSummary{TotalUsers: len(b.users), ActiveCampaigns: len(b.campaigns), PendingWithdrawals: pending})
	})
	handle("GET /api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.users)
	})
	handle("POST /api/admin/users/{id}/ban", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.lastBanBody = body
		for i := range b.users {
			if b.users[i].ID == domain.ID(r.PathValue("id")) {
				b.users[i].IsBanned = body["ban"]
			}
		}
		reply(w, map[string]string{"status": "ok"})
	})
	handle("GET /api/admin/campaigns", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]any{"campaigns": b.campaigns})
	})
	handle("POST /api/admin/campaigns", func(w http.ResponseWriter, r *http.Request) {
		var in domain.CampaignInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.campaigns = append(b.campaigns, domain.Campaign{CampaignID: "c2", Name: in.Name, Status: in.Status, RewardAmount: in.RewardAmount})
		w.WriteHeader(http.StatusCreated)
	})
	handle("DELETE /api/admin/campaigns/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
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
		next := domain.WithdrawalApproved
		if r.PathValue("action") == ActionReject {
			next = domain.WithdrawalRejected
		}
		for i := range b.withdrawals {
			if b.withdrawals[i].ID == domain.ID(r.PathValue("id")) {
				b.withdrawals[i].Status = next
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/screenshots/pending", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.screenshots)
	})
	handle("POST /api/admin/screenshots/review", func(w http.ResponseWriter, r *http.Request) {
		var review domain.ScreenshotReview
		_ = json.NewDecoder(r.Body).Decode(&review)
		b.lastReview = review
		reviewed := map[domain.ID]bool{}
		for _, id := range review.IDs {
			reviewed[id] = true
		}
		remaining := []domain.Screenshot{}
		for _, s := range b.screenshots {
			if !reviewed[s.ID] {
				remaining = append(remaining, s)
			}
		}
		b.screenshots = remaining
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.settings)
	})
	handle("PUT /api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&b.settings)
		reply(w, b.settings)
	})
	handle("GET /api/admin/channels", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})
	return mux
}

type testEnv struct {
	backend *fakeBackend
	server  *httptest.Server
	clock   *testclock.Clock
	store   *session.Store
	client  *gateway.Client
	engine  *resource.Engine
	console *Console
}

func newTestEnv(t *testing.T, loggedIn bool) *testEnv {
	t.Helper()

	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	clk := testclock.NewClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	store := session.New(session.NewMemoryStorage(), nil)
	if loggedIn {
		if _, err := store.Login(t.Context(), testUser, testPassword); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	client := gateway.New(gateway.Config{BaseURL: server.URL}, store, nil)
	engine := resource.NewEngine(resource.Options{
		Clock:      clk,
		Stale:      DefaultStaleWindows(),
		Dependents: Dependents(),
	})
	t.Cleanup(engine.Close)

	return &testEnv{
		backend: backend,
		server:  server,
		clock:   clk,
		store:   store,
		client:  client,
		engine:  engine,
		console: NewConsole(client, engine),
	}
}
