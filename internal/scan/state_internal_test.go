package scan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positive(chainName, symbol, amount string) Observation {
	return Observation{
		Chain:  chainName,
		Symbol: symbol,
		Amount: decimal.NewNullDecimal(decimal.RequireFromString(amount)),
	}
}

func TestState_ReserveAndComplete(t *testing.T) {
	t.Parallel()

	s := NewState()

	decision, _ := s.reserve("ETH")
	require.Equal(t, dispatchProbe, decision)
	assert.Equal(t, 1, s.Probed())

	decision, done := s.reserve("ETH")
	require.Equal(t, dispatchWait, decision)
	require.NotNil(t, done)

	assert.True(t, s.complete(positive("Ethereum", "ETH", "1.5")))

	select {
	case <-done:
	default:
		t.Fatal("waiter was not released")
	}

	decision, _ = s.reserve("ETH")
	assert.Equal(t, dispatchSkip, decision)
	assert.True(t, s.Checked("ETH"))
	assert.Equal(t, 1, s.Found())
	assert.Equal(t, 1, s.Probed())
}

func TestState_FailedProbeLeavesCurrencyOpen(t *testing.T) {
	t.Parallel()

	s := NewState()
	decision, _ := s.reserve("BNB")
	require.Equal(t, dispatchProbe, decision)

	assert.False(t, s.complete(Observation{Chain: "BSC", Symbol: "BNB"}))
	assert.False(t, s.Checked("BNB"))

	decision, _ = s.reserve("BNB")
	assert.Equal(t, dispatchProbe, decision)
	assert.Equal(t, 2, s.Probed())
}

func TestState_ZeroLeavesCurrencyOpen(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.reserve("ETH")
	assert.False(t, s.complete(positive("Ethereum", "ETH", "0")))
	assert.False(t, s.Checked("ETH"))
	assert.Empty(t, s.UniqueAmounts())
}

func TestState_DuplicateAmount(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.reserve("AAA")
	s.reserve("BBB")

	assert.True(t, s.complete(positive("A", "AAA", "0.25")))
	assert.False(t, s.complete(positive("B", "BBB", "0.250")), "same value with different scale is a duplicate")

	assert.Equal(t, []string{"AAA"}, s.CheckedCurrencies())
	assert.Equal(t, []string{"0.25"}, s.UniqueAmounts())
	assert.Equal(t, 1, s.Found())
}

func TestState_Abandon(t *testing.T) {
	t.Parallel()

	s := NewState()
	decision, _ := s.reserve("ETH")
	require.Equal(t, dispatchProbe, decision)

	s.abandon("ETH")
	assert.Equal(t, 0, s.Probed())

	decision, _ = s.reserve("ETH")
	assert.Equal(t, dispatchProbe, decision)
}

func TestOptions_Normalize(t *testing.T) {
	t.Parallel()

	o := Options{TierOneSize: 100, TierTwoLimit: 10}
	o.normalize()

	assert.Equal(t, DefaultConcurrency, o.Concurrency)
	assert.Equal(t, 100, o.TierOneSize)
	assert.Equal(t, 100, o.TierTwoLimit)
	assert.Equal(t, DefaultExpandThreshold, o.ExpandThreshold)
}
