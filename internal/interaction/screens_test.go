package interaction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alt-project/adminctl/internal/admin"
	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/gateway"
	"github.com/alt-project/adminctl/internal/resource"
	"github.com/alt-project/adminctl/internal/session"
)

// stubBackend serves a small admin API and counts requests per route.
type stubBackend struct {
	mu          sync.Mutex
	calls       map[string]int
	withdrawals []domain.Withdrawal
	screenshots []domain.Screenshot
	channels    []domain.Channel
	reviews     []domain.ScreenshotReview
	gate        map[string]chan struct{}
	failing     map[string]bool
}

func (b *stubBackend) count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func (b *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, fn func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.calls[route]++
			gate := b.gate[route]
			fail := b.failing[route]
			b.mu.Unlock()

			if gate != nil {
				<-gate
			}
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			fn(w, r)
		})
	}
	reply := func(w http.ResponseWriter, v any) {
		_ = json.NewEncoder(w).Encode(v)
	}

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
				b.withdrawals[i].Status = domain.WithdrawalApproved
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
		b.reviews = append(b.reviews, review)
		b.screenshots = nil
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/admin/channels", func(w http.ResponseWriter, r *http.Request) {
		reply(w, b.channels)
	})
	handle("POST /api/admin/channels", func(w http.ResponseWriter, r *http.Request) {
		var in domain.ChannelInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.channels = append(b.channels, domain.Channel{ID: "9", Name: in.Name})
		w.WriteHeader(http.StatusCreated)
	})
	handle("POST /api/admin/users/{id}/wallet", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handle("POST /api/admin/gift-codes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

type screenEnv struct {
	backend *stubBackend
	notes   *Notifications
	screens *Screens
}

func newScreenEnv(t *testing.T) *screenEnv {
	t.Helper()

	backend := &stubBackend{
		calls: map[string]int{},
		withdrawals: []domain.Withdrawal{
			{ID: "1", User: "alice", Amount: 5, Status: domain.WithdrawalPending},
			{ID: "2", User: "bob", Amount: 9, Status: domain.WithdrawalApproved},
		},
		screenshots: []domain.Screenshot{{ID: "7"}, {ID: "8"}},
		gate:        map[string]chan struct{}{},
		failing:     map[string]bool{},
	}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	clk := testclock.NewClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	store := session.New(session.NewMemoryStorage(), nil)
	_, err := store.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)

	client := gateway.New(gateway.Config{BaseURL: server.URL}, store, nil)
	engine := resource.NewEngine(resource.Options{Clock: clk, Dependents: admin.Dependents()})
	t.Cleanup(engine.Close)

	notes := NewNotifications(clk)
	return &screenEnv{
		backend: backend,
		notes:   notes,
		screens: NewScreens(admin.NewConsole(client, engine), notes),
	}
}

func TestWithdrawalsScreen_ApproveRemovesFromPending(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()
	screen := env.screens.Withdrawals

	require.NoError(t, screen.SetFilter("pending"))
	v, err := screen.Load(ctx)
	require.NoError(t, err)
	require.Len(t, v.Data, 1)

	require.NoError(t, screen.Review(ctx, v.Data[0], admin.ActionApprove))

	v, err = screen.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Data)
	assert.Equal(t, []string{MsgActionCompleted}, texts(env.notes.Active()))
}

func TestWithdrawalsScreen_NonPendingNotActionable(t *testing.T) {
	env := newScreenEnv(t)

	err := env.screens.Withdrawals.Review(context.Background(),
		domain.Withdrawal{ID: "2", Status: domain.WithdrawalApproved}, admin.ActionApprove)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, env.backend.count("POST /api/admin/withdrawals/{id}/{action}"))
	assert.Empty(t, env.notes.Active())
}

func TestWithdrawalsScreen_ReviewByIDChecksStatus(t *testing.T) {
	env := newScreenEnv(t)

	err := env.screens.Withdrawals.ReviewByID(context.Background(), "2", admin.ActionReject)

	assert.EqualError(t, err, MsgNotActionable)
}

func TestWithdrawalsScreen_ReviewByIDUsesCachedList(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()
	screen := env.screens.Withdrawals

	_, err := screen.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, env.backend.count("GET /api/admin/withdrawals"))

	require.NoError(t, screen.ReviewByID(ctx, "1", admin.ActionApprove))

	assert.Equal(t, 1, env.backend.count("GET /api/admin/withdrawals"))
	assert.Equal(t, 1, env.backend.count("POST /api/admin/withdrawals/{id}/{action}"))
}

func TestWithdrawalsScreen_KeepsPreviousDataWhileFilterLoads(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()
	screen := env.screens.Withdrawals

	v, err := screen.Load(ctx)
	require.NoError(t, err)
	require.Len(t, v.Data, 2)

	gate := make(chan struct{})
	env.backend.mu.Lock()
	env.backend.gate["GET /api/admin/withdrawals"] = gate
	env.backend.mu.Unlock()

	require.NoError(t, screen.SetFilter("approved"))
	assert.Equal(t, "approved", screen.Filter())
	v = screen.Observe(ctx)
	assert.True(t, v.Refreshing)
	assert.False(t, v.Loading)
	assert.Len(t, v.Data, 2)

	close(gate)
	v, err = screen.Load(ctx)
	require.NoError(t, err)
	require.Len(t, v.Data, 1)
	assert.Equal(t, domain.ID("2"), v.Data[0].ID)
}

func TestScreenshotsScreen_BulkReview(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()
	screen := env.screens.Screenshots

	require.NoError(t, screen.SelectAll(ctx))
	assert.Equal(t, []domain.ID{"7", "8"}, screen.Selection.Items())

	require.NoError(t, screen.ReviewSelected(ctx, false))

	assert.Equal(t, 1, env.backend.count("POST /api/admin/screenshots/review"))
	assert.Equal(t, []domain.ScreenshotReview{{IDs: []domain.ID{"7", "8"}, Approve: false}}, env.backend.reviews)
	assert.Equal(t, 0, screen.Selection.Len())
	assert.Equal(t, []string{MsgActionCompleted}, texts(env.notes.Active()))

	v, err := screen.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Data)
}

func TestScreenshotsScreen_FailedReviewKeepsSelection(t *testing.T) {
	env := newScreenEnv(t)
	screen := env.screens.Screenshots
	env.backend.failing["POST /api/admin/screenshots/review"] = true

	screen.Toggle("7")
	err := screen.ReviewSelected(context.Background(), true)

	assert.ErrorIs(t, err, domain.ErrHTTP)
	assert.Equal(t, []domain.ID{"7"}, screen.Selection.Items())
	assert.Equal(t, []string{MsgActionFailed}, texts(env.notes.Active()))
}

func TestScreenshotsScreen_SelectAllSurfacesLoadError(t *testing.T) {
	env := newScreenEnv(t)
	screen := env.screens.Screenshots
	env.backend.failing["GET /api/admin/screenshots/pending"] = true

	err := screen.SelectAll(context.Background())

	assert.ErrorIs(t, err, domain.ErrHTTP)
	assert.Equal(t, 0, screen.Selection.Len())
	assert.Zero(t, env.backend.count("POST /api/admin/screenshots/review"))
}

func TestScreenshotsScreen_EmptySelection(t *testing.T) {
	env := newScreenEnv(t)

	err := env.screens.Screenshots.ReviewSelected(context.Background(), true)

	assert.EqualError(t, err, MsgSelectionEmpty)
	assert.Zero(t, env.backend.count("POST /api/admin/screenshots/review"))
}

func TestChannelsScreen_ValidationNeverCallsNetwork(t *testing.T) {
	env := newScreenEnv(t)
	screen := env.screens.Channels

	screen.OpenNew()
	err := screen.Submit(context.Background(), ChannelForm{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, DialogOpen, screen.Dialog.State())
	assert.Equal(t, MsgChannelNameRequired, screen.Dialog.Message())
	assert.Zero(t, env.backend.count("POST /api/admin/channels"))
	assert.Empty(t, env.notes.Active())
}

func TestChannelsScreen_CreateRefreshesList(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()
	screen := env.screens.Channels

	v, err := screen.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Data)

	form := screen.OpenNew()
	form.Name = "news"
	require.NoError(t, screen.Submit(ctx, form))

	assert.Equal(t, DialogClosed, screen.Dialog.State())
	assert.Equal(t, []string{MsgChannelCreated}, texts(env.notes.Active()))

	v, err = screen.Load(ctx)
	require.NoError(t, err)
	require.Len(t, v.Data, 1)
	assert.Equal(t, "news", v.Data[0].Name)
}

func TestChannelsScreen_MutationFailureReopensDialog(t *testing.T) {
	env := newScreenEnv(t)
	screen := env.screens.Channels
	env.backend.failing["POST /api/admin/channels"] = true

	screen.OpenNew()
	err := screen.Submit(context.Background(), ChannelForm{Name: "news"})

	assert.ErrorIs(t, err, domain.ErrHTTP)
	assert.Equal(t, DialogOpen, screen.Dialog.State())
	assert.Equal(t, []string{MsgChannelSaveErr}, texts(env.notes.Active()))
}

func TestUsersScreen_AdjustWallet(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()

	err := env.screens.Users.AdjustWallet(ctx, "1", "abc")
	assert.EqualError(t, err, MsgInvalidNumericAmount)
	assert.Zero(t, env.backend.count("POST /api/admin/users/{id}/wallet"))

	require.NoError(t, env.screens.Users.AdjustWallet(ctx, "1", "-5"))
	assert.Equal(t, 1, env.backend.count("POST /api/admin/users/{id}/wallet"))
	assert.Equal(t, []string{MsgWalletAdjusted}, texts(env.notes.Active()))
}

func TestGiftCodesScreen_Create(t *testing.T) {
	env := newScreenEnv(t)
	ctx := context.Background()

	assert.EqualError(t, env.screens.GiftCodes.Create(ctx, GiftCodeForm{Amount: "0"}), MsgInvalidAmount)
	require.NoError(t, env.screens.GiftCodes.Create(ctx, GiftCodeForm{Amount: "10"}))

	assert.Equal(t, 1, env.backend.count("POST /api/admin/gift-codes"))
	assert.Equal(t, []string{MsgGiftCodeCreated}, texts(env.notes.Active()))
}

func TestScreens_LoadErrorText(t *testing.T) {
	env := newScreenEnv(t)

	v, err := env.screens.Settings.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, LoadErrSettings, v.ErrText)
	assert.ErrorIs(t, v.Err, domain.ErrNotFound)
}
