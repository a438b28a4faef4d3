package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

const testSecret = "test-signing-secret"

func TestClaimTokenRoundTrip(t *testing.T) {
	assignment := &tier.Assignment{Tier: tier.TierGold, DiscountPct: 30, Headline: "Top performer"}

	token, err := GenerateClaimToken("sess-123", assignment, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionID, got, err := ValidateClaimToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "sess-123", sessionID)
	assert.Equal(t, tier.TierGold, got.Tier)
	assert.Equal(t, 30, got.DiscountPct)
}

func TestClaimTokenWrongSecret(t *testing.T) {
	assignment := &tier.Assignment{Tier: tier.TierSilver, DiscountPct: 20}

	token, err := GenerateClaimToken("sess-123", assignment, testSecret)
	require.NoError(t, err)

	_, _, err = ValidateClaimToken(token, "other-secret")
	assert.Error(t, err)
}

func TestClaimTokenGarbage(t *testing.T) {
	_, _, err := ValidateClaimToken("not.a.token", testSecret)
	assert.Error(t, err)

	_, _, err = ValidateClaimToken("", testSecret)
	assert.Error(t, err)
}

func TestSysOpTokenRoundTrip(t *testing.T) {
	token, err := GenerateSysOpToken(testSecret)
	require.NoError(t, err)

	assert.NoError(t, ValidateSysOpToken(token, testSecret))
	assert.Error(t, ValidateSysOpToken(token, "other-secret"))
}

func TestSysOpTokenRejectsClaimTokens(t *testing.T) {
	assignment := &tier.Assignment{Tier: tier.TierBronze, DiscountPct: 15}

	token, err := GenerateClaimToken("sess-123", assignment, testSecret)
	require.NoError(t, err)

	assert.Error(t, ValidateSysOpToken(token, testSecret))
}

func TestGenerateULID(t *testing.T) {
	first := GenerateULID()
	second := GenerateULID()

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}
