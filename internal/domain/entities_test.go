package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  ID
	}{
		{`42`, "42"},
		{`"c-17"`, "c-17"},
		{`null`, ""},
		{`7.5`, "7.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	body, err := json.Marshal(ScreenshotReview{IDs: []ID{"1", "abc", "007"}, Approve: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids":[1,"abc","007"],"approve":true}`, string(body))
}

func TestCampaign_DecodesCampaignID(t *testing.T) {
	var c Campaign
	require.NoError(t, json.Unmarshal([]byte(`{"campaignId":9,"name":"Spring","rewardAmount":2.5,"status":"active"}`), &c))

	assert.Equal(t, ID("9"), c.CampaignID)
	assert.Equal(t, 2.5, c.RewardAmount)
}

func TestWithdrawal_Actionable(t *testing.T) {
	assert.True(t, Withdrawal{Status: WithdrawalPending}.Actionable())
	assert.False(t, Withdrawal{Status: WithdrawalApproved}.Actionable())
	assert.False(t, Withdrawal{Status: WithdrawalRejected}.Actionable())
}
