// Package admin configures the synchronization engine for each backend
// resource and exposes the mutations the console can perform.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/gateway"
	"github.com/alt-project/adminctl/internal/resource"
)

// Resource types, used as cache key types and configuration names.
const (
	TypeDashboard   = "dashboard"
	TypeUsers       = "users"
	TypeCampaigns   = "campaigns"
	TypeChannels    = "channels"
	TypeGiftCodes   = "gift-codes"
	TypeAPIKeys     = "api-keys"
	TypeWithdrawals = "withdrawals"
	TypeScreenshots = "screenshots"
	TypeSettings    = "settings"
)

// AllTypes lists every resource type.
var AllTypes = []string{
	TypeDashboard, TypeUsers, TypeCampaigns, TypeChannels, TypeGiftCodes,
	TypeAPIKeys, TypeWithdrawals, TypeScreenshots, TypeSettings,
}

// IsType reports whether t names a resource type.
func IsType(t string) bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

const apiPrefix = "/api/admin"

// DefaultStaleWindows returns the staleness windows used when none are configured.
func DefaultStaleWindows() map[string]time.Duration {
	return map[string]time.Duration{TypeDashboard: 5 * time.Minute}
}

// Dependents returns, per type, the types whose cached state a successful
// mutation of that type also makes stale. The dashboard aggregates counts of
// campaigns, gift codes and pending withdrawals.
func Dependents() map[string][]string {
	return map[string][]string{
		TypeCampaigns:   {TypeDashboard},
		TypeGiftCodes:   {TypeDashboard},
		TypeWithdrawals: {TypeDashboard},
	}
}

// API is the subset of the gateway client the console needs.
type API interface {
	Do(ctx context.Context, req gateway.Request, out any) error
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Console holds one Resource per backend collection.
type Console struct {
	api    API
	engine *resource.Engine

	Dashboard   *resource.Resource[domain.DashboardSummary]
	Users       *resource.Resource[[]domain.User]
	Campaigns   *resource.Resource[[]domain.Campaign]
	Channels    *resource.Resource[[]domain.Channel]
	GiftCodes   *resource.Resource[[]domain.GiftCode]
	APIKeys     *resource.Resource[[]domain.APIKey]
	Screenshots *resource.Resource[[]domain.Screenshot]
	Settings    *resource.Resource[domain.Settings]
}

// NewConsole wires every resource to engine through api.
func NewConsole(api API, engine *resource.Engine) *Console {
	c := &Console{api: api, engine: engine}

	c.Dashboard = resource.New(engine, resource.Key{Type: TypeDashboard},
		func(ctx context.Context) (domain.DashboardSummary, error) {
			var out domain.DashboardSummary
			err := api.Get(ctx, apiPrefix+"/dashboard", nil, &out)
			return out, err
		})
	c.Users = resource.New(engine, resource.Key{Type: TypeUsers}, list[domain.User](api, apiPrefix+"/users", nil))
	c.Campaigns = resource.New(engine, resource.Key{Type: TypeCampaigns},
		func(ctx context.Context) ([]domain.Campaign, error) {
			var out struct {
				Campaigns []domain.Campaign `json:"campaigns"`
			}
			if err := api.Get(ctx, apiPrefix+"/campaigns", nil, &out); err != nil {
				return nil, err
			}
			if out.Campaigns == nil {
				return []domain.Campaign{}, nil
			}
			return out.Campaigns, nil
		})
	c.Channels = resource.New(engine, resource.Key{Type: TypeChannels}, list[domain.Channel](api, apiPrefix+"/channels", nil))
	c.GiftCodes = resource.New(engine, resource.Key{Type: TypeGiftCodes}, list[domain.GiftCode](api, apiPrefix+"/gift-codes", nil))
	c.APIKeys = resource.New(engine, resource.Key{Type: TypeAPIKeys}, list[domain.APIKey](api, apiPrefix+"/api-keys", nil))
	c.Screenshots = resource.New(engine, resource.Key{Type: TypeScreenshots}, list[domain.Screenshot](api, apiPrefix+"/screenshots/pending", nil))
	c.Settings = resource.New(engine, resource.Key{Type: TypeSettings},
		func(ctx context.Context) (domain.Settings, error) {
			var out domain.Settings
			err := api.Get(ctx, apiPrefix+"/settings", nil, &out)
			return out, err
		})
	return c
}

// Engine returns the engine backing the console.
func (c *Console) Engine() *resource.Engine { return c.engine }

// list builds a loader for a JSON array endpoint. A null body yields an empty slice.
func list[T any](api API, path string, q url.Values) func(ctx context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		var out []T
		if err := api.Get(ctx, path, q, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	}
}

// Withdrawal filters accepted by ParseWithdrawalFilter.
var WithdrawalFilters = []string{"all", domain.WithdrawalPending, domain.WithdrawalApproved, domain.WithdrawalRejected}

// WithdrawalQuery filters the withdrawal list. An empty Status lists all.
type WithdrawalQuery struct {
	Status string `url:"status,omitempty"`
}

// ParseWithdrawalFilter validates a filter name.
func ParseWithdrawalFilter(filter string) (WithdrawalQuery, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	switch filter {
	case "", "all":
		return WithdrawalQuery{}, nil
	case domain.WithdrawalPending, domain.WithdrawalApproved, domain.WithdrawalRejected:
		return WithdrawalQuery{Status: filter}, nil
	}
	return WithdrawalQuery{}, domain.NewValidationError("status",
		fmt.Sprintf("unknown status %q (expected one of %s)", filter, strings.Join(WithdrawalFilters, ", ")))
}

// Values encodes the query.
func (q WithdrawalQuery) Values() url.Values {
	v, err := query.Values(q)
	if err != nil {
		// Only non-struct inputs fail to encode.
		return url.Values{}
	}
	return v
}

// Withdrawals returns the withdrawal list for q. Every filter shares the
// withdrawals type, so a mutation refreshes all of them.
func (c *Console) Withdrawals(q WithdrawalQuery) *resource.Resource[[]domain.Withdrawal] {
	values := q.Values()
	return resource.New(c.engine, resource.Key{Type: TypeWithdrawals, Query: values.Encode()},
		list[domain.Withdrawal](c.api, apiPrefix+"/withdrawals", values))
}
