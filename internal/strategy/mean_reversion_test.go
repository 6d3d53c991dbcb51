package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

func TestMeanReversion_OversoldBounce(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(85, 95, 100)
	m.RSI = domain.Float(15)
	m.Return5D = domain.Float(-9.0)
	m.Return20D = domain.Float(-4.0)
	m.IVRank = domain.Float(25)

	res := s.CheckEntry("INTC", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bullish, res.Direction)
	assert.Equal(t, domain.TradeCallLong, res.TradeType)
	// 50 + 20 (RSI<20) + 15 (|5D|>8) + 10 (IV<30)
	assert.InDelta(t, 95.0, res.SignalStrength, 0.001)
}

func TestMeanReversion_OverboughtFade(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(120, 110, 105)
	m.RSI = domain.Float(82)
	m.Return5D = domain.Float(6.0)
	m.Return20D = domain.Float(10.0)
	m.IVRank = domain.Float(40)

	res := s.CheckEntry("NVDA", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bearish, res.Direction)
	assert.Equal(t, domain.TradePutLong, res.TradeType)
}

func TestMeanReversion_RelaxedThresholdAtExtremeRSI(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	// RSI 18 relaja el umbral de 5D a 5.0*0.75 = 3.75%.
	m := baseMetrics(90, 95, 100)
	m.RSI = domain.Float(18)
	m.Return5D = domain.Float(-4.0)
	m.Return20D = domain.Float(-6.0)
	m.IVRank = domain.Float(35)

	res := s.CheckEntry("F", m)
	require.True(t, res.Passed)

	// Con RSI 22 (no extremo) el umbral vuelve a 5.0% y -4.0% no basta.
	m.RSI = domain.Float(22)
	res = s.CheckEntry("F", m)
	require.False(t, res.Passed)
	assert.Equal(t, 20.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "not extreme enough")
}

func TestMeanReversion_RSINotExtreme(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.RSI = domain.Float(50)

	res := s.CheckEntry("PG", m)

	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[0], "not extreme")
}

func TestMeanReversion_RSIUnavailable(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.RSI = nil

	res := s.CheckEntry("DIS", m)

	require.False(t, res.Passed)
	assert.Contains(t, res.Reasons[0], "RSI unavailable")
}

func TestMeanReversion_TrendTooStrong(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(80, 95, 100)
	m.RSI = domain.Float(15)
	m.Return5D = domain.Float(-9.0)
	m.Return20D = domain.Float(-20.0) // caída sostenida: tendencia, no reversión

	res := s.CheckEntry("WBA", m)

	require.False(t, res.Passed)
	assert.Equal(t, domain.Bullish, res.Direction)
	assert.Equal(t, 30.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "may be trend")
}

func TestMeanReversion_ExpensiveOptions(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(85, 95, 100)
	m.RSI = domain.Float(15)
	m.Return5D = domain.Float(-9.0)
	m.Return20D = domain.Float(-4.0)
	m.IVRank = domain.Float(65)

	res := s.CheckEntry("AMD", m)

	require.False(t, res.Passed)
	assert.Equal(t, 40.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "options expensive")
}

func TestMeanReversion_EarningsSoon(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	m := baseMetrics(85, 95, 100)
	m.RSI = domain.Float(15)
	m.Return5D = domain.Float(-9.0)
	m.Return20D = domain.Float(-4.0)
	m.IVRank = domain.Float(25)
	m.EarningsDate = "2025-06-05" // 2 días completos

	res := s.CheckEntry("CRM", m)

	require.False(t, res.Passed)
	assert.Equal(t, 35.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "reversal may not happen")
}

func TestMeanReversion_NoOptionsStillPasses(t *testing.T) {
	s := strategy.NewMeanReversion(fixedClock())

	// A diferencia del resto de estrategias, la ausencia de cadena solo se
	// anota: la señal de reversión sigue siendo válida.
	m := baseMetrics(85, 95, 100)
	m.RSI = domain.Float(15)
	m.Return5D = domain.Float(-9.0)
	m.Return20D = domain.Float(-4.0)
	m.IVRank = domain.Float(25)
	m.Options = nil

	res := s.CheckEntry("GM", m)

	require.True(t, res.Passed)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "will need to fetch before trading")
}
