package interaction

import (
	"math"
	"strconv"
	"strings"

	"github.com/alt-project/adminctl/internal/domain"
)

// Validation messages.
const (
	MsgInvalidNumericAmount = "Enter a valid numeric amount"
	MsgInvalidAmount        = "Enter a valid amount"
	MsgCampaignRequired     = "Name, description and reward are required"
	MsgChannelNameRequired  = "Name is required"
	MsgAPIKeyNameRequired   = "Please enter a name"
	MsgSettingsRequired     = "Please fill all required fields"
	MsgSelectionEmpty       = "Select at least one screenshot"
	MsgNotActionable        = "Only pending withdrawals can be approved or rejected"
)

// DefaultCampaignStatus is the status a new campaign starts with.
const DefaultCampaignStatus = "active"

// parseAmount parses a finite decimal number.
func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WalletForm adjusts a user's wallet by Amount, which may be negative.
type WalletForm struct {
	Amount string
}

// Parse returns the signed wallet adjustment.
func (f WalletForm) Parse() (float64, error) {
	v, ok := parseAmount(f.Amount)
	if !ok {
		return 0, domain.NewValidationError("amount", MsgInvalidNumericAmount)
	}
	return v, nil
}

// CampaignForm is the raw campaign dialog input.
type CampaignForm struct {
	Name         string
	Description  string
	RewardAmount string
	Status       string
	Instructions string
}

// NewCampaignForm returns the defaults of an empty campaign dialog.
func NewCampaignForm() CampaignForm {
	return CampaignForm{Status: DefaultCampaignStatus}
}

// CampaignFormFrom pre-fills the dialog from an existing campaign.
func CampaignFormFrom(c domain.Campaign) CampaignForm {
	return CampaignForm{
		Name:         c.Name,
		Description:  c.Description,
		RewardAmount: formatAmount(c.RewardAmount),
		Status:       c.Status,
		Instructions: c.Instructions,
	}
}

// Input validates the form and builds the request payload.
func (f CampaignForm) Input() (domain.CampaignInput, error) {
	name := strings.TrimSpace(f.Name)
	description := strings.TrimSpace(f.Description)
	if name == "" || description == "" || strings.TrimSpace(f.RewardAmount) == "" {
		return domain.CampaignInput{}, domain.NewValidationError("campaign", MsgCampaignRequired)
	}
	reward, ok := parseAmount(f.RewardAmount)
	if !ok {
		return domain.CampaignInput{}, domain.NewValidationError("rewardAmount", MsgInvalidNumericAmount)
	}
	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = DefaultCampaignStatus
	}
	return domain.CampaignInput{
		Name:         name,
		Description:  description,
		RewardAmount: reward,
		Status:       status,
		Instructions: strings.TrimSpace(f.Instructions),
	}, nil
}

// ChannelForm is the raw channel dialog input.
type ChannelForm struct {
	Name        string
	Description string
}

// ChannelFormFrom pre-fills a form from c.
func ChannelFormFrom(c domain.Channel) ChannelForm {
	return ChannelForm{Name: c.Name, Description: c.Description}
}

// Input validates the form and builds the request payload.
func (f ChannelForm) Input() (domain.ChannelInput, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return domain.ChannelInput{}, domain.NewValidationError("name", MsgChannelNameRequired)
	}
	return domain.ChannelInput{Name: name, Description: strings.TrimSpace(f.Description)}, nil
}

// GiftCodeForm creates a gift code worth Amount.
type GiftCodeForm struct {
	Amount string
}

// Parse returns the gift code amount, which must be positive.
func (f GiftCodeForm) Parse() (float64, error) {
	v, ok := parseAmount(f.Amount)
	if !ok || v <= 0 {
		return 0, domain.NewValidationError("amount", MsgInvalidAmount)
	}
	return v, nil
}

// APIKeyForm creates an API key labelled Name.
type APIKeyForm struct {
	Name string
}

// Parse returns the trimmed key name.
func (f APIKeyForm) Parse() (string, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return "", domain.NewValidationError("name", MsgAPIKeyNameRequired)
	}
	return name, nil
}

// SettingsForm is the raw settings page input.
type SettingsForm struct {
	DefaultRewardAmount string
	MinWithdrawalAmount string
	PaymentGateway      string
	SupportEmail        string
}

// SettingsFormFrom pre-fills the form. Zero amounts are shown empty.
func SettingsFormFrom(s domain.Settings) SettingsForm {
	f := SettingsForm{PaymentGateway: s.PaymentGateway, SupportEmail: s.SupportEmail}
	if s.DefaultRewardAmount != 0 {
		f.DefaultRewardAmount = formatAmount(s.DefaultRewardAmount)
	}
	if s.MinWithdrawalAmount != 0 {
		f.MinWithdrawalAmount = formatAmount(s.MinWithdrawalAmount)
	}
	return f
}

// Settings validates the form and converts it to domain settings.
func (f SettingsForm) Settings() (domain.Settings, error) {
	gateway := strings.TrimSpace(f.PaymentGateway)
	if strings.TrimSpace(f.DefaultRewardAmount) == "" || strings.TrimSpace(f.MinWithdrawalAmount) == "" || gateway == "" {
		return domain.Settings{}, domain.NewValidationError("settings", MsgSettingsRequired)
	}
	reward, ok := parseAmount(f.DefaultRewardAmount)
	if !ok {
		return domain.Settings{}, domain.NewValidationError("defaultRewardAmount", MsgInvalidNumericAmount)
	}
	minimum, ok := parseAmount(f.MinWithdrawalAmount)
	if !ok {
		return domain.Settings{}, domain.NewValidationError("minWithdrawalAmount", MsgInvalidNumericAmount)
	}
	return domain.Settings{
		DefaultRewardAmount: reward,
		MinWithdrawalAmount: minimum,
		PaymentGateway:      gateway,
		SupportEmail:        strings.TrimSpace(f.SupportEmail),
	}, nil
}
