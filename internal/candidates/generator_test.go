package candidates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/candidates"
	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Cadena alcista de referencia: la pata larga natural es el strike 104
// (delta estimada ~0.34) y la corta el 110 (~0.15).
func callChain() *domain.OptionsChain {
	return &domain.OptionsChain{
		CurrentPrice: 100,
		Expiration:   "2025-07-18",
		DTE:          45,
		Calls: []domain.OptionRow{
			{Strike: 104, Bid: 2.0, Ask: 2.2, OpenInterest: domain.Int(800)},
			{Strike: 110, Bid: 1.0, Ask: 1.1, OpenInterest: domain.Int(600)},
		},
	}
}

func TestGenerateCallSpread_PicksExpectedPair(t *testing.T) {
	g := candidates.NewGenerator()

	spread := g.GenerateCallSpread("AAPL", callChain())
	require.NotNil(t, spread)

	assert.Equal(t, domain.Bullish, spread.Direction)
	assert.Equal(t, domain.TradeCallDebit, spread.SpreadType)
	assert.Equal(t, 104.0, spread.Long.Strike)
	assert.Equal(t, 110.0, spread.Short.Strike)
	assert.Equal(t, 6.0, spread.SpreadWidth)

	// maxDebit = ask larga - bid corta; midDebit = mid larga - mid corta.
	assert.InDelta(t, 1.2, spread.MaxDebit, 1e-9)
	assert.InDelta(t, 1.05, spread.MidDebit, 1e-9)
	assert.InDelta(t, 4.95, spread.MaxProfit, 1e-9)
	assert.InDelta(t, spread.MidDebit, spread.MaxLoss, 1e-9)
	assert.InDelta(t, 4.95/1.05, spread.RiskReward, 1e-9)
	assert.InDelta(t, 105.05, spread.Breakeven, 1e-9)
	assert.Equal(t, 1400, spread.OpenInterest)
}

func TestGenerateCallSpread_DebitCapInclusive(t *testing.T) {
	g := candidates.NewGenerator()

	// maxDebit 1.80 sobre width 6 = 30.0% exacto: dentro del límite.
	chain := callChain()
	chain.Calls[0].Bid, chain.Calls[0].Ask = 2.6, 2.8
	spread := g.GenerateCallSpread("MSFT", chain)
	require.NotNil(t, spread)
	assert.InDelta(t, 1.8, spread.MaxDebit, 1e-9)

	// 1.86 sobre 6 = 31%: fuera.
	chain = callChain()
	chain.Calls[0].Bid, chain.Calls[0].Ask = 2.6, 2.86
	assert.Nil(t, g.GenerateCallSpread("MSFT", chain))
}

func TestGeneratePutSpread_Mirror(t *testing.T) {
	g := candidates.NewGenerator()

	chain := &domain.OptionsChain{
		CurrentPrice: 100,
		Expiration:   "2025-07-18",
		DTE:          45,
		Puts: []domain.OptionRow{
			{Strike: 96, Bid: 2.0, Ask: 2.2},
			{Strike: 91, Bid: 0.9, Ask: 1.0},
		},
	}

	spread := g.GeneratePutSpread("XOM", chain)
	require.NotNil(t, spread)

	assert.Equal(t, domain.Bearish, spread.Direction)
	assert.Equal(t, domain.TradePutDebit, spread.SpreadType)
	assert.Equal(t, 96.0, spread.Long.Strike)
	assert.Equal(t, 91.0, spread.Short.Strike)
	assert.InDelta(t, 1.15, spread.MidDebit, 1e-9)
	// Breakeven bajista: strike largo menos débito.
	assert.InDelta(t, 94.85, spread.Breakeven, 1e-9)
	assert.Negative(t, spread.Long.Delta)
}

func TestGenerate_NilAndNeutralCases(t *testing.T) {
	g := candidates.NewGenerator()

	assert.Nil(t, g.Generate("AAPL", domain.Bullish, nil))
	assert.Nil(t, g.Generate("AAPL", domain.Neutral, callChain()))

	chain := callChain()
	chain.CurrentPrice = 0
	assert.Nil(t, g.Generate("AAPL", domain.Bullish, chain))
}

func TestGenerate_TooFewQuotedRows(t *testing.T) {
	g := candidates.NewGenerator()

	// El strike sin bid se filtra y queda una sola pata utilizable.
	chain := callChain()
	chain.Calls[1].Bid = 0

	assert.Nil(t, g.GenerateCallSpread("GM", chain))
}

func TestGenerate_DoesNotMutateCallerChain(t *testing.T) {
	g := candidates.NewGenerator()

	chain := callChain()
	before := make([]domain.OptionRow, len(chain.Calls))
	copy(before, chain.Calls)

	_ = g.Generate("AAPL", domain.Bullish, chain)

	assert.Equal(t, before, chain.Calls)
}

func TestGenerate_ReturnsSingleElementSlice(t *testing.T) {
	g := candidates.NewGenerator()

	out := g.Generate("AAPL", domain.Bullish, callChain())
	require.Len(t, out, 1)
	assert.Equal(t, "AAPL", out[0].Ticker)
}

func TestGenerateAll_SortedByRiskReward(t *testing.T) {
	// Dos tickers con spreads de distinta calidad: el de mejor
	// risk/reward va primero independientemente del orden de entrada.
	cheap := callChain() // midDebit 1.05 → RR ~4.71

	rich := callChain()
	rich.Calls[0].Bid, rich.Calls[0].Ask = 2.6, 2.8 // midDebit 1.65 → RR ~2.64

	results := []domain.StrategyResult{
		{Ticker: "RICH", Passed: true, Direction: domain.Bullish},
		{Ticker: "CHEAP", Passed: true, Direction: domain.Bullish},
		{Ticker: "FAIL", Passed: false, Direction: domain.Bullish},
		{Ticker: "NOCHAIN", Passed: true, Direction: domain.Bullish},
	}
	data := map[string]domain.TickerMetrics{
		"RICH":    {Price: 100, Options: rich},
		"CHEAP":   {Price: 100, Options: cheap},
		"FAIL":    {Price: 100, Options: callChain()},
		"NOCHAIN": {Price: 100},
	}

	all := candidates.GenerateAll(results, data)

	require.Len(t, all, 2)
	assert.Equal(t, "CHEAP", all[0].Ticker)
	assert.Equal(t, "RICH", all[1].Ticker)
	assert.GreaterOrEqual(t, all[0].RiskReward, all[1].RiskReward)
}
