package admin

import (
	"context"
	"net/url"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/resource"
)

// Withdrawal actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

func itemPath(collection string, id domain.ID, suffix ...string) string {
	p := apiPrefix + "/" + collection + "/" + url.PathEscape(id.String())
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// SetBan bans or unbans a user.
func (c *Console) SetBan(ctx context.Context, id domain.ID, ban bool) error {
	body := map[string]bool{"ban": ban}
	name := "unban"
	if ban {
		name = "ban"
	}
	return c.Users.Mutate(ctx, resource.Action, name, body, func(ctx context.Context) error {
		return c.api.Post(ctx, itemPath("users", id, "ban"), body, nil)
	})
}

// AdjustWallet adds amount (negative to deduct) to a user's wallet.
func (c *Console) AdjustWallet(ctx context.Context, id domain.ID, amount float64) error {
	body := map[string]float64{"amount": amount}
	return c.Users.Mutate(ctx, resource.Action, "wallet", body, func(ctx context.Context) error {
		return c.api.Post(ctx, itemPath("users", id, "wallet"), body, nil)
	})
}

func (c *Console) CreateCampaign(ctx context.Context, in domain.CampaignInput) error {
	return c.Campaigns.Mutate(ctx, resource.Create, "", in, func(ctx context.Context) error {
		return c.api.Post(ctx, apiPrefix+"/campaigns", in, nil)
	})
}

func (c *Console) UpdateCampaign(ctx context.Context, id domain.ID, in domain.CampaignInput) error {
	return c.Campaigns.Mutate(ctx, resource.Update, "", in, func(ctx context.Context) error {
		return c.api.Put(ctx, itemPath("campaigns", id), in, nil)
	})
}

func (c *Console) DeleteCampaign(ctx context.Context, id domain.ID) error {
	return c.Campaigns.Mutate(ctx, resource.Delete, "", id, func(ctx context.Context) error {
		return c.api.Delete(ctx, itemPath("campaigns", id), nil)
	})
}

func (c *Console) CreateChannel(ctx context.Context, in domain.ChannelInput) error {
	return c.Channels.Mutate(ctx, resource.Create, "", in, func(ctx context.Context) error {
		return c.api.Post(ctx, apiPrefix+"/channels", in, nil)
	})
}

func (c *Console) UpdateChannel(ctx context.Context, id domain.ID, in domain.ChannelInput) error {
	return c.Channels.Mutate(ctx, resource.Update, "", in, func(ctx context.Context) error {
		return c.api.Put(ctx, itemPath("channels", id), in, nil)
	})
}

func (c *Console) DeleteChannel(ctx context.Context, id domain.ID) error {
	return c.Channels.Mutate(ctx, resource.Delete, "", id, func(ctx context.Context) error {
		return c.api.Delete(ctx, itemPath("channels", id), nil)
	})
}

func (c *Console) CreateGiftCode(ctx context.Context, amount float64) error {
	body := map[string]float64{"amount": amount}
	return c.GiftCodes.Mutate(ctx, resource.Create, "", body, func(ctx context.Context) error {
		return c.api.Post(ctx, apiPrefix+"/gift-codes", body, nil)
	})
}

func (c *Console) DeleteGiftCode(ctx context.Context, id domain.ID) error {
	return c.GiftCodes.Mutate(ctx, resource.Delete, "", id, func(ctx context.Context) error {
		return c.api.Delete(ctx, itemPath("gift-codes", id), nil)
	})
}

func (c *Console) CreateAPIKey(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.APIKeys.Mutate(ctx, resource.Create, "", body, func(ctx context.Context) error {
		return c.api.Post(ctx, apiPrefix+"/api-keys", body, nil)
	})
}

func (c *Console) DeleteAPIKey(ctx context.Context, id domain.ID) error {
	return c.APIKeys.Mutate(ctx, resource.Delete, "", id, func(ctx context.Context) error {
		return c.api.Delete(ctx, itemPath("api-keys", id), nil)
	})
}

// ReviewWithdrawal applies ActionApprove or ActionReject to a withdrawal.
func (c *Console) ReviewWithdrawal(ctx context.Context, id domain.ID, action string) error {
	if action != ActionApprove && action != ActionReject {
		return domain.NewValidationError("action", "action must be approve or reject")
	}
	return c.Withdrawals(WithdrawalQuery{}).Mutate(ctx, resource.Action, action, id, func(ctx context.Context) error {
		return c.api.Post(ctx, itemPath("withdrawals", id, action), nil, nil)
	})
}

// ReviewScreenshots approves or rejects screenshots in one request.
func (c *Console) ReviewScreenshots(ctx context.Context, ids []domain.ID, approve bool) error {
	if len(ids) == 0 {
		return domain.NewValidationError("ids", "Select at least one screenshot")
	}
	body := domain.ScreenshotReview{IDs: ids, Approve: approve}
	name := ActionReject
	if approve {
		name = ActionApprove
	}
	return c.Screenshots.Mutate(ctx, resource.Action, name, body, func(ctx context.Context) error {
		return c.api.Post(ctx, apiPrefix+"/screenshots/review", body, nil)
	})
}

func (c *Console) SaveSettings(ctx context.Context, s domain.Settings) error {
	return c.Settings.Mutate(ctx, resource.Update, "", s, func(ctx context.Context) error {
		return c.api.Put(ctx, apiPrefix+"/settings", s, nil)
	})
}
