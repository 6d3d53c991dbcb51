package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

func TestIVCrush_ElevatedIVSellsCallSpread(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = domain.Float(70)
	m.Return20D = domain.Float(5.0) // subida → vender call spread
	m.RSI = domain.Float(60)

	res := s.CheckEntry("PFE", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bearish, res.Direction)
	assert.Equal(t, domain.TradeCallCredit, res.TradeType)
	// 50 + (70-55)*0.5 + 10 por RSI en [30,70]
	assert.InDelta(t, 67.5, res.SignalStrength, 0.001)
}

func TestIVCrush_IVRankBoundaryInclusive(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.Return20D = domain.Float(0)
	m.RSI = domain.Float(50)

	// 54.9 rechaza en la primera puerta.
	m.IVRank = domain.Float(54.9)
	res := s.CheckEntry("T", m)
	require.False(t, res.Passed)
	assert.Equal(t, 0.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[0], "need elevated IV")

	// 55.0 exacto pasa la puerta.
	m.IVRank = domain.Float(55.0)
	res = s.CheckEntry("T", m)
	assert.True(t, res.Passed)
}

func TestIVCrush_IVRankUnknown(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = nil

	res := s.CheckEntry("VZ", m)

	require.False(t, res.Passed)
	assert.Contains(t, res.Reasons[0], "IV Rank unknown")
}

func TestIVCrush_PostEarningsBonus(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = domain.Float(60)
	m.Return20D = domain.Float(0)
	m.RSI = domain.Float(50)
	m.EarningsDate = "2025-05-30" // hace 3 días

	res := s.CheckEntry("WMT", m)

	require.True(t, res.Passed)
	// 50 + (60-55)*0.5 + 15 post-earnings + 10 RSI
	assert.InDelta(t, 77.5, res.SignalStrength, 0.001)
	assert.Contains(t, res.Reasons[1], "IV crush opportunity")
}

func TestIVCrush_UpcomingEarningsRejected(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = domain.Float(70)
	m.EarningsDate = "2025-06-12" // en 10 días

	res := s.CheckEntry("NFLX", m)

	require.False(t, res.Passed)
	assert.Equal(t, 30.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "event risk")
}

func TestIVCrush_ExtremeTrendRejected(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = domain.Float(70)
	m.Return20D = domain.Float(-12.0)

	res := s.CheckEntry("BA", m)

	require.False(t, res.Passed)
	assert.Equal(t, 20.0, res.SignalStrength)
	assert.Contains(t, res.Reasons[len(res.Reasons)-1], "too extreme")
}

func TestIVCrush_DirectionFromRSIWhenFlat(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = domain.Float(65)
	m.Return20D = domain.Float(1.0) // dentro de ±2: decide el RSI
	m.RSI = domain.Float(60)

	res := s.CheckEntry("KO", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bearish, res.Direction)
	assert.Equal(t, domain.TradeCallCredit, res.TradeType)

	m.RSI = domain.Float(45)
	res = s.CheckEntry("KO", m)

	require.True(t, res.Passed)
	assert.Equal(t, domain.Bullish, res.Direction)
	assert.Equal(t, domain.TradePutCredit, res.TradeType)
}

func TestIVCrush_NoOptionsData(t *testing.T) {
	s := strategy.NewIVCrush(fixedClock())

	m := baseMetrics(100, 99, 98)
	m.IVRank = domain.Float(70)
	m.Return20D = domain.Float(3.0)
	m.Options = nil

	res := s.CheckEntry("CVX", m)

	require.False(t, res.Passed)
	assert.Equal(t, domain.Bearish, res.Direction)
	assert.Equal(t, 40.0, res.SignalStrength)
}
