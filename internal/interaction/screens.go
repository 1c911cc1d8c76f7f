package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alt-project/adminctl/internal/admin"
	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/resource"
)

// Notification texts.
const (
	MsgBanUpdated       = "User ban status updated"
	MsgBanFailed        = "Failed to update ban status"
	MsgWalletAdjusted   = "Wallet adjusted successfully"
	MsgWalletFailed     = "Failed to adjust wallet"
	MsgCampaignCreated  = "Campaign created"
	MsgCampaignUpdated  = "Campaign updated"
	MsgCampaignSaveErr  = "Error saving campaign"
	MsgCampaignDeleted  = "Campaign deleted"
	MsgCampaignDelErr   = "Error deleting campaign"
	MsgChannelCreated   = "Channel created"
	MsgChannelUpdated   = "Channel updated"
	MsgChannelSaveErr   = "Error saving channel"
	MsgChannelDeleted   = "Channel deleted"
	MsgChannelDelErr    = "Error deleting channel"
	MsgGiftCodeCreated  = "Gift code created"
	MsgGiftCodeErr      = "Error creating gift code"
	MsgGiftCodeDeleted  = "Gift code deleted"
	MsgGiftCodeDelErr   = "Error deleting gift code"
	MsgAPIKeyCreated    = "API Key created"
	MsgAPIKeyErr        = "Error creating API Key"
	MsgAPIKeyDeleted    = "API Key deleted"
	MsgAPIKeyDelErr     = "Error deleting API Key"
	MsgActionCompleted  = "Action completed successfully"
	MsgActionFailed     = "Action failed"
	MsgSettingsSaved    = "Settings saved successfully"
	MsgSettingsSaveFail = "Failed to save settings"
)

// Load error texts, shown in place of a collection that failed to load.
const (
	LoadErrDashboard   = "Error loading dashboard data."
	LoadErrUsers       = "Error loading users data."
	LoadErrCampaigns   = "Failed to load campaigns."
	LoadErrChannels    = "Failed to load channels."
	LoadErrGiftCodes   = "Error loading gift codes."
	LoadErrAPIKeys     = "Error loading API Keys."
	LoadErrWithdrawals = "Error loading withdrawals."
	LoadErrScreenshots = "Error loading screenshots."
	LoadErrSettings    = "Error loading settings."
)

// View is what a screen renders for one collection.
type View[T any] struct {
	Data    T
	HasData bool
	// Loading is set while the first fetch runs.
	Loading bool
	// Refreshing is set while a fetch runs and older data is shown.
	Refreshing bool
	Err        error
	ErrText    string
	FetchedAt  time.Time
}

func newView[T any](s resource.Snapshot[T], errText string) View[T] {
	v := View[T]{
		Data:       s.Data,
		HasData:    s.HasData,
		Loading:    s.Status == resource.Loading && !s.HasData,
		Refreshing: s.Status == resource.Loading && s.HasData,
		FetchedAt:  s.FetchedAt,
	}
	if s.Status == resource.Error {
		v.Err = s.Err
		v.ErrText = errText
	}
	return v
}

func load[T any](ctx context.Context, r *resource.Resource[T], errText string) (View[T], error) {
	s, err := r.Read(ctx)
	return newView(s, errText), err
}

// report turns a mutation outcome into exactly one notification. Validation
// errors stay with the caller.
func report(notes *Notifications, err error, success, failure string) error {
	switch {
	case err == nil:
		notes.Success(success)
	case errors.Is(err, domain.ErrValidation):
	default:
		notes.Failure(failure)
	}
	return err
}

func notFound(kind string, id domain.ID) error {
	return domain.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, id))
}

// Screens bundles every screen controller over one console and notification queue.
type Screens struct {
	Dashboard   *DashboardScreen
	Users       *UsersScreen
	Campaigns   *CampaignsScreen
	Channels    *ChannelsScreen
	GiftCodes   *GiftCodesScreen
	APIKeys     *APIKeysScreen
	Withdrawals *WithdrawalsScreen
	Screenshots *ScreenshotsScreen
	Settings    *SettingsScreen
}

// NewScreens builds every screen over one console and notification queue.
func NewScreens(console *admin.Console, notes *Notifications) *Screens {
	return &Screens{
		Dashboard:   &DashboardScreen{console: console},
		Users:       &UsersScreen{console: console, notes: notes},
		Campaigns:   &CampaignsScreen{console: console, notes: notes},
		Channels:    &ChannelsScreen{console: console, notes: notes},
		GiftCodes:   &GiftCodesScreen{console: console, notes: notes},
		APIKeys:     &APIKeysScreen{console: console, notes: notes},
		Withdrawals: &WithdrawalsScreen{console: console, notes: notes},
		Screenshots: &ScreenshotsScreen{console: console, notes: notes},
		Settings:    &SettingsScreen{console: console, notes: notes},
	}
}

// DashboardScreen shows the summary counters.
type DashboardScreen struct {
	console *admin.Console
}

// Load reads the dashboard counters, waiting for any fetch in flight.
func (s *DashboardScreen) Load(ctx context.Context) (View[domain.DashboardSummary], error) {
	return load(ctx, s.console.Dashboard, LoadErrDashboard)
}

// Observe returns the cached dashboard counters without waiting, starting a fetch when needed.
func (s *DashboardScreen) Observe(ctx context.Context) View[domain.DashboardSummary] {
	return newView(s.console.Dashboard.Observe(ctx), LoadErrDashboard)
}

// UsersScreen lists users and edits bans and wallets.
type UsersScreen struct {
	console *admin.Console
	notes   *Notifications
	Wallet  Dialog[domain.User]
}

// Load reads the users, waiting for any fetch in flight.
func (s *UsersScreen) Load(ctx context.Context) (View[[]domain.User], error) {
	return load(ctx, s.console.Users, LoadErrUsers)
}

// Observe returns the cached users without waiting, starting a fetch when needed.
func (s *UsersScreen) Observe(ctx context.Context) View[[]domain.User] {
	return newView(s.console.Users.Observe(ctx), LoadErrUsers)
}

// Find returns the user with id from the current list.
func (s *UsersScreen) Find(ctx context.Context, id domain.ID) (domain.User, error) {
	v, err := s.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if v.Err != nil && !v.HasData {
		return domain.User{}, v.Err
	}
	for _, u := range v.Data {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, notFound("user", id)
}

// ToggleBan flips the ban flag of u.
func (s *UsersScreen) ToggleBan(ctx context.Context, u domain.User) error {
	return s.SetBan(ctx, u.ID, !u.IsBanned)
}

// SetBan bans or unbans a user.
func (s *UsersScreen) SetBan(ctx context.Context, id domain.ID, ban bool) error {
	return report(s.notes, s.console.SetBan(ctx, id, ban), MsgBanUpdated, MsgBanFailed)
}

// OpenWallet opens the wallet dialog for u.
func (s *UsersScreen) OpenWallet(u domain.User) {
	s.Wallet.OpenEdit(u)
}

// SubmitWallet applies the open wallet dialog.
func (s *UsersScreen) SubmitWallet(ctx context.Context, f WalletForm) error {
	var amount float64
	return s.Wallet.Submit(ctx,
		func() (err error) {
			amount, err = f.Parse()
			return err
		},
		func(ctx context.Context, _ Mode, u domain.User) error {
			return report(s.notes, s.console.AdjustWallet(ctx, u.ID, amount), MsgWalletAdjusted, MsgWalletFailed)
		})
}

// AdjustWallet opens the wallet dialog for id and submits amount.
func (s *UsersScreen) AdjustWallet(ctx context.Context, id domain.ID, amount string) error {
	s.OpenWallet(domain.User{ID: id})
	return s.SubmitWallet(ctx, WalletForm{Amount: amount})
}

// CampaignsScreen lists and edits campaigns.
type CampaignsScreen struct {
	console *admin.Console
	notes   *Notifications
	Dialog  Dialog[domain.Campaign]
}

// Load reads the campaigns, waiting for any fetch in flight.
func (s *CampaignsScreen) Load(ctx context.Context) (View[[]domain.Campaign], error) {
	return load(ctx, s.console.Campaigns, LoadErrCampaigns)
}

// Observe returns the cached campaigns without waiting, starting a fetch when needed.
func (s *CampaignsScreen) Observe(ctx context.Context) View[[]domain.Campaign] {
	return newView(s.console.Campaigns.Observe(ctx), LoadErrCampaigns)
}

// Find returns the campaign with id from the current list.
func (s *CampaignsScreen) Find(ctx context.Context, id domain.ID) (domain.Campaign, error) {
	v, err := s.Load(ctx)
	if err != nil {
		return domain.Campaign{}, err
	}
	if v.Err != nil && !v.HasData {
		return domain.Campaign{}, v.Err
	}
	for _, c := range v.Data {
		if c.CampaignID == id {
			return c, nil
		}
	}
	return domain.Campaign{}, notFound("campaign", id)
}

// OpenNew opens an empty dialog and returns its initial form.
func (s *CampaignsScreen) OpenNew() CampaignForm {
	s.Dialog.OpenNew()
	return NewCampaignForm()
}

// OpenEdit opens the dialog on c and returns the pre-filled form.
func (s *CampaignsScreen) OpenEdit(c domain.Campaign) CampaignForm {
	s.Dialog.OpenEdit(c)
	return CampaignFormFrom(c)
}

// Submit creates or updates depending on how the dialog was opened.
func (s *CampaignsScreen) Submit(ctx context.Context, f CampaignForm) error {
	var in domain.CampaignInput
	return s.Dialog.Submit(ctx,
		func() (err error) {
			in, err = f.Input()
			return err
		},
		func(ctx context.Context, mode Mode, c domain.Campaign) error {
			if mode == ModeEdit {
				return report(s.notes, s.console.UpdateCampaign(ctx, c.CampaignID, in), MsgCampaignUpdated, MsgCampaignSaveErr)
			}
			return report(s.notes, s.console.CreateCampaign(ctx, in), MsgCampaignCreated, MsgCampaignSaveErr)
		})
}

// Delete removes the campaign and reports the outcome.
func (s *CampaignsScreen) Delete(ctx context.Context, id domain.ID) error {
	return report(s.notes, s.console.DeleteCampaign(ctx, id), MsgCampaignDeleted, MsgCampaignDelErr)
}

// ChannelsScreen lists and edits channels.
type ChannelsScreen struct {
	console *admin.Console
	notes   *Notifications
	Dialog  Dialog[domain.Channel]
}

// Load reads the channels, waiting for any fetch in flight.
func (s *ChannelsScreen) Load(ctx context.Context) (View[[]domain.Channel], error) {
	return load(ctx, s.console.Channels, LoadErrChannels)
}

// Observe returns the cached channels without waiting, starting a fetch when needed.
func (s *ChannelsScreen) Observe(ctx context.Context) View[[]domain.Channel] {
	return newView(s.console.Channels.Observe(ctx), LoadErrChannels)
}

// Find returns the channel with id from the current list.
func (s *ChannelsScreen) Find(ctx context.Context, id domain.ID) (domain.Channel, error) {
	v, err := s.Load(ctx)
	if err != nil {
		return domain.Channel{}, err
	}
	if v.Err != nil && !v.HasData {
		return domain.Channel{}, v.Err
	}
	for _, c := range v.Data {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Channel{}, notFound("channel", id)
}

// OpenNew opens the dialog for a new channel and returns an empty form.
func (s *ChannelsScreen) OpenNew() ChannelForm {
	s.Dialog.OpenNew()
	return ChannelForm{}
}

// OpenEdit opens the dialog for c and returns its pre-filled form.
func (s *ChannelsScreen) OpenEdit(c domain.Channel) ChannelForm {
	s.Dialog.OpenEdit(c)
	return ChannelFormFrom(c)
}

// Submit validates f and creates or updates the channel the dialog was opened for.
func (s *ChannelsScreen) Submit(ctx context.Context, f ChannelForm) error {
	var in domain.ChannelInput
	return s.Dialog.Submit(ctx,
		func() (err error) {
			in, err = f.Input()
			return err
		},
		func(ctx context.Context, mode Mode, c domain.Channel) error {
			if mode == ModeEdit {
				return report(s.notes, s.console.UpdateChannel(ctx, c.ID, in), MsgChannelUpdated, MsgChannelSaveErr)
			}
			return report(s.notes, s.console.CreateChannel(ctx, in), MsgChannelCreated, MsgChannelSaveErr)
		})
}

// Delete removes the channel and reports the outcome.
func (s *ChannelsScreen) Delete(ctx context.Context, id domain.ID) error {
	return report(s.notes, s.console.DeleteChannel(ctx, id), MsgChannelDeleted, MsgChannelDelErr)
}

// GiftCodesScreen lists, creates and deletes gift codes.
type GiftCodesScreen struct {
	console *admin.Console
	notes   *Notifications
	Dialog  Dialog[domain.GiftCode]
}

// Load reads the gift codes, waiting for any fetch in flight.
func (s *GiftCodesScreen) Load(ctx context.Context) (View[[]domain.GiftCode], error) {
	return load(ctx, s.console.GiftCodes, LoadErrGiftCodes)
}

// Observe returns the cached gift codes without waiting, starting a fetch when needed.
func (s *GiftCodesScreen) Observe(ctx context.Context) View[[]domain.GiftCode] {
	return newView(s.console.GiftCodes.Observe(ctx), LoadErrGiftCodes)
}

// Create opens the create dialog and submits f.
func (s *GiftCodesScreen) Create(ctx context.Context, f GiftCodeForm) error {
	s.Dialog.OpenNew()
	var amount float64
	return s.Dialog.Submit(ctx,
		func() (err error) {
			amount, err = f.Parse()
			return err
		},
		func(ctx context.Context, _ Mode, _ domain.GiftCode) error {
			return report(s.notes, s.console.CreateGiftCode(ctx, amount), MsgGiftCodeCreated, MsgGiftCodeErr)
		})
}

// Delete removes the gift code and reports the outcome.
func (s *GiftCodesScreen) Delete(ctx context.Context, id domain.ID) error {
	return report(s.notes, s.console.DeleteGiftCode(ctx, id), MsgGiftCodeDeleted, MsgGiftCodeDelErr)
}

// APIKeysScreen lists, creates and deletes API keys.
type APIKeysScreen struct {
	console *admin.Console
	notes   *Notifications
	Dialog  Dialog[domain.APIKey]
}

// Load reads the API keys, waiting for any fetch in flight.
func (s *APIKeysScreen) Load(ctx context.Context) (View[[]domain.APIKey], error) {
	return load(ctx, s.console.APIKeys, LoadErrAPIKeys)
}

// Observe returns the cached API keys without waiting, starting a fetch when needed.
func (s *APIKeysScreen) Observe(ctx context.Context) View[[]domain.APIKey] {
	return newView(s.console.APIKeys.Observe(ctx), LoadErrAPIKeys)
}

// Create validates f and creates an API key.
func (s *APIKeysScreen) Create(ctx context.Context, f APIKeyForm) error {
	s.Dialog.OpenNew()
	var name string
	return s.Dialog.Submit(ctx,
		func() (err error) {
			name, err = f.Parse()
			return err
		},
		func(ctx context.Context, _ Mode, _ domain.APIKey) error {
			return report(s.notes, s.console.CreateAPIKey(ctx, name), MsgAPIKeyCreated, MsgAPIKeyErr)
		})
}

// Delete removes the API key and reports the outcome.
func (s *APIKeysScreen) Delete(ctx context.Context, id domain.ID) error {
	return report(s.notes, s.console.DeleteAPIKey(ctx, id), MsgAPIKeyDeleted, MsgAPIKeyDelErr)
}

// WithdrawalsScreen lists withdrawals under a status filter. While a new
// filter loads, the previous list stays visible.
type WithdrawalsScreen struct {
	console *admin.Console
	notes   *Notifications

	mu     sync.Mutex
	filter admin.WithdrawalQuery
	last   View[[]domain.Withdrawal]
}

// SetFilter selects all, pending, approved or rejected.
func (s *WithdrawalsScreen) SetFilter(name string) error {
	q, err := admin.ParseWithdrawalFilter(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.filter = q
	s.mu.Unlock()
	return nil
}

// Filter returns the current filter name.
func (s *WithdrawalsScreen) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter.Status == "" {
		return "all"
	}
	return s.filter.Status
}

func (s *WithdrawalsScreen) current() *resource.Resource[[]domain.Withdrawal] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.console.Withdrawals(s.filter)
}

func (s *WithdrawalsScreen) remember(v View[[]domain.Withdrawal]) View[[]domain.Withdrawal] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.HasData {
		s.last = v
		return v
	}
	if v.Loading && s.last.HasData {
		prev := s.last
		prev.Loading = false
		prev.Refreshing = true
		return prev
	}
	return v
}

// Load reads the withdrawals matching the current filter, waiting for any fetch in flight.
func (s *WithdrawalsScreen) Load(ctx context.Context) (View[[]domain.Withdrawal], error) {
	v, err := load(ctx, s.current(), LoadErrWithdrawals)
	return s.remember(v), err
}

// Observe returns the cached withdrawals matching the current filter without waiting, starting a fetch when needed.
func (s *WithdrawalsScreen) Observe(ctx context.Context) View[[]domain.Withdrawal] {
	return s.remember(newView(s.current().Observe(ctx), LoadErrWithdrawals))
}

// Review approves or rejects w. Only pending withdrawals are actionable.
func (s *WithdrawalsScreen) Review(ctx context.Context, w domain.Withdrawal, action string) error {
	if !w.Actionable() {
		return domain.NewValidationError("status", MsgNotActionable)
	}
	return report(s.notes, s.console.ReviewWithdrawal(ctx, w.ID, action), MsgActionCompleted, MsgActionFailed)
}

// ReviewByID looks id up in the cached lists, reading the unfiltered list only
// when nothing usable is cached, and reviews it. Unknown ids are sent as-is
// and left to the backend.
func (s *WithdrawalsScreen) ReviewByID(ctx context.Context, id domain.ID, action string) error {
	w, found, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if found {
		return s.Review(ctx, w, action)
	}
	return report(s.notes, s.console.ReviewWithdrawal(ctx, id, action), MsgActionCompleted, MsgActionFailed)
}

func (s *WithdrawalsScreen) lookup(ctx context.Context, id domain.ID) (domain.Withdrawal, bool, error) {
	all := s.console.Withdrawals(admin.WithdrawalQuery{})
	if snap, ok := all.Peek(); ok && snap.HasData && !snap.Invalidated {
		w, found := findWithdrawal(snap.Data, id)
		return w, found, nil
	}
	if snap, ok := s.current().Peek(); ok && snap.HasData && !snap.Invalidated {
		if w, found := findWithdrawal(snap.Data, id); found {
			return w, true, nil
		}
	}

	snap, err := all.Read(ctx)
	if err != nil {
		return domain.Withdrawal{}, false, err
	}
	w, found := findWithdrawal(snap.Data, id)
	return w, found, nil
}

func findWithdrawal(list []domain.Withdrawal, id domain.ID) (domain.Withdrawal, bool) {
	for _, w := range list {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Withdrawal{}, false
}

// ScreenshotsScreen reviews pending screenshots one by one or in bulk.
type ScreenshotsScreen struct {
	console   *admin.Console
	notes     *Notifications
	Selection Selection[domain.ID]
}

// Load reads the pending screenshots, waiting for any fetch in flight.
func (s *ScreenshotsScreen) Load(ctx context.Context) (View[[]domain.Screenshot], error) {
	return load(ctx, s.console.Screenshots, LoadErrScreenshots)
}

// Observe returns the cached pending screenshots without waiting, starting a fetch when needed.
func (s *ScreenshotsScreen) Observe(ctx context.Context) View[[]domain.Screenshot] {
	return newView(s.console.Screenshots.Observe(ctx), LoadErrScreenshots)
}

// Toggle adds or removes id from the selection.
func (s *ScreenshotsScreen) Toggle(id domain.ID) bool {
	return s.Selection.Toggle(id)
}

// SelectAll toggles between selecting every listed screenshot and none.
func (s *ScreenshotsScreen) SelectAll(ctx context.Context) error {
	v, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if v.Err != nil && !v.HasData {
		return v.Err
	}
	ids := make([]domain.ID, len(v.Data))
	for i, shot := range v.Data {
		ids[i] = shot.ID
	}
	s.Selection.SelectAll(ids)
	return nil
}

// ReviewSelected sends one review request for the whole selection and clears it on success.
func (s *ScreenshotsScreen) ReviewSelected(ctx context.Context, approve bool) error {
	ids := s.Selection.Items()
	if len(ids) == 0 {
		return domain.NewValidationError("ids", MsgSelectionEmpty)
	}
	err := report(s.notes, s.console.ReviewScreenshots(ctx, ids, approve), MsgActionCompleted, MsgActionFailed)
	if err == nil {
		s.Selection.Clear()
	}
	return err
}

// Review approves or rejects a single screenshot.
func (s *ScreenshotsScreen) Review(ctx context.Context, id domain.ID, approve bool) error {
	return report(s.notes, s.console.ReviewScreenshots(ctx, []domain.ID{id}, approve), MsgActionCompleted, MsgActionFailed)
}

// SettingsScreen edits the global settings.
type SettingsScreen struct {
	console *admin.Console
	notes   *Notifications
}

// Load reads the settings, waiting for any fetch in flight.
func (s *SettingsScreen) Load(ctx context.Context) (View[domain.Settings], error) {
	return load(ctx, s.console.Settings, LoadErrSettings)
}

// Observe returns the cached settings without waiting, starting a fetch when needed.
func (s *SettingsScreen) Observe(ctx context.Context) View[domain.Settings] {
	return newView(s.console.Settings.Observe(ctx), LoadErrSettings)
}

// Form returns the form pre-filled from the current settings.
func (s *SettingsScreen) Form(ctx context.Context) (SettingsForm, error) {
	v, err := s.Load(ctx)
	if err != nil {
		return SettingsForm{}, err
	}
	if v.Err != nil && !v.HasData {
		return SettingsForm{}, v.Err
	}
	return SettingsFormFrom(v.Data), nil
}

// Save validates f and stores the settings.
func (s *SettingsScreen) Save(ctx context.Context, f SettingsForm) error {
	settings, err := f.Settings()
	if err != nil {
		return err
	}
	return report(s.notes, s.console.SaveSettings(ctx, settings), MsgSettingsSaved, MsgSettingsSaveFail)
}
