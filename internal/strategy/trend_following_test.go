package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

func TestTrendFollowing_BullishSignal(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)
	m.IVRank = domain.Float(40)

	res := s.CheckEntry("AAPL", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bullish, res.Direction)
	assert.Equal(t, domain.TradeCallDebit, res.TradeType)
	// 60 base + (6-3)*2 momentum + 10 por IV en [25,45]
	assert.InDelta(t, 76.0, res.SignalStrength, 0.001)
	assert.NotEmpty(t, res.Reasons)
}

func TestTrendFollowing_BearishSignal(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(90, 95, 100)
	m.Return20D = domain.Float(-5.0)
	m.RSI = domain.Float(40)

	res := s.CheckEntry("XOM", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bearish, res.Direction)
	assert.Equal(t, domain.TradePutDebit, res.TradeType)
}

func TestTrendFollowing_PriceEqualMA20_NoTrend(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	// Desigualdad estricta: price == MA20 no cuenta como tendencia.
	m := baseMetrics(100, 100, 95)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)

	res := s.CheckEntry("MSFT", m)

	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[0], "No clear trend")
}

func TestTrendFollowing_RSIOutsideBullishRange(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(80) // sobrecomprado

	res := s.CheckEntry("NVDA", m)

	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[0], "outside bullish range")
}

func TestTrendFollowing_IVRankTooHigh(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)
	m.IVRank = domain.Float(70)

	res := s.CheckEntry("TSLA", m)

	require.False(t, res.Passed)
	assert.Equal(t, domain.Bullish, res.Direction)
	assert.Equal(t, 30.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "too high")
}

func TestTrendFollowing_IVRankUnknown_SoftPass(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)
	m.IVRank = nil

	res := s.CheckEntry("KO", m)
	assert.True(t, res.Passed)
}

func TestTrendFollowing_EarningsWithinWindow(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)
	m.EarningsDate = "2025-06-07" // 4 días completos desde testNow

	res := s.CheckEntry("META", m)

	require.False(t, res.Passed)
	assert.Equal(t, 40.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "Earnings in 4 days - SKIP")
}

func TestTrendFollowing_EarningsFarAway_Passes(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)
	m.EarningsDate = "2025-07-15" // 43 días

	res := s.CheckEntry("JPM", m)
	assert.True(t, res.Passed)
}

func TestTrendFollowing_NoOptionsData(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = domain.Float(60)
	m.Options = nil

	res := s.CheckEntry("HON", m)

	require.False(t, res.Passed)
	assert.Equal(t, 50.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "No options data")
}

func TestTrendFollowing_MissingPriceData(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	res := s.CheckEntry("GE", domain.TickerMetrics{Price: 100})

	require.False(t, res.Passed)
	assert.Equal(t, []string{"Missing price data"}, res.Reasons)
}

func TestTrendFollowing_MissingRSIDefaultsTo50(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	// RSI nil → default 50, que está dentro del rango alcista [50,75].
	m := baseMetrics(110, 105, 100)
	m.Return20D = domain.Float(6.0)
	m.RSI = nil

	res := s.CheckEntry("CAT", m)
	assert.True(t, res.Passed)
}

func TestTrendFollowing_StrengthCappedMomentum(t *testing.T) {
	s := strategy.NewTrendFollowing(fixedClock())

	// Momentum de +30%: el bonus se capa en min(30-3,10)*2 = 20.
	m := baseMetrics(130, 110, 100)
	m.Return20D = domain.Float(30.0)
	m.RSI = domain.Float(60)
	m.IVRank = domain.Float(50) // fuera de [25,45], sin bonus de IV

	res := s.CheckEntry("AVGO", m)

	require.True(t, res.Passed)
	assert.InDelta(t, 80.0, res.SignalStrength, 0.001)
}
