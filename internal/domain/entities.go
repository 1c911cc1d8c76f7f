// Package domain holds the admin console's entities, error taxonomy and ports.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID identifies a backend entity. The backend emits both numeric and string ids.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers so request bodies round-trip.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// DashboardSummary is the aggregate shown on the dashboard.
type DashboardSummary struct {
	TotalUsers         int `json:"totalUsers"`
	ActiveCampaigns    int `json:"activeCampaigns"`
	PendingWithdrawals int `json:"pendingWithdrawals"`
	TotalGiftCodes     int `json:"totalGiftCodes"`
}

type User struct {
	ID            ID      `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	WalletBalance float64 `json:"walletBalance"`
	IsBanned      bool    `json:"isBanned"`
}

type Campaign struct {
	CampaignID   ID      `json:"campaignId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	RewardAmount float64 `json:"rewardAmount"`
	Status       string  `json:"status"`
	Instructions string  `json:"instructions,omitempty"`
}

// CampaignInput is the create/update payload for a campaign.
type CampaignInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	RewardAmount float64 `json:"rewardAmount"`
	Status       string  `json:"status"`
	Instructions string  `json:"instructions"`
}

type Channel struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChannelInput is the create/update payload for a channel.
type ChannelInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GiftCode struct {
	ID        ID        `json:"id"`
	Code      string    `json:"code"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type APIKey struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"apiKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// Withdrawal statuses.
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

type Withdrawal struct {
	ID          ID        `json:"id"`
	User        string    `json:"user"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Actionable reports whether approve/reject may still be applied.
func (w Withdrawal) Actionable() bool {
	return w.Status == WithdrawalPending
}

type Screenshot struct {
	ID        ID        `json:"id"`
	URL       string    `json:"url"`
	UserID    ID        `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScreenshotReview is the bulk review payload.
type ScreenshotReview struct {
	IDs     []ID `json:"ids"`
	Approve bool `json:"approve"`
}

type Settings struct {
	DefaultRewardAmount float64 `json:"defaultRewardAmount"`
	MinWithdrawalAmount float64 `json:"minWithdrawalAmount"`
	PaymentGateway      string  `json:"paymentGateway"`
	SupportEmail        string  `json:"supportEmail"`
}
