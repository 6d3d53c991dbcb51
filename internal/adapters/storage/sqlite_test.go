package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/adapters/storage"
	"github.com/alejandrodnm/edgescan/internal/domain"
)

func testScan(id string, results ...domain.StrategyResult) domain.Scan {
	return domain.Scan{
		ID:           id,
		StrategyKey:  "1",
		StrategyName: "Trend Following Debit Spread",
		StartedAt:    time.Now(),
		Duration:     time.Second,
		Results:      results,
	}
}

func passResult(ticker string, strength float64) domain.StrategyResult {
	return domain.StrategyResult{
		Ticker:         ticker,
		Passed:         true,
		Direction:      domain.Bullish,
		SignalStrength: strength,
		Reasons:        []string{"Uptrend confirmed"},
		TradeType:      domain.TradeCallDebit,
	}
}

func TestSQLiteStorage_SaveScan(t *testing.T) {
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer s.Close()

	scan := testScan("scan-1",
		passResult("AAPL", 76),
		domain.Reject("PG", "", 0, []string{"No clear trend"}),
	)

	err = s.SaveScan(context.Background(), scan)
	require.NoError(t, err)
}

func TestSQLiteStorage_EmptyScanIsNoop(t *testing.T) {
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer s.Close()

	err = s.SaveScan(context.Background(), testScan("scan-empty"))
	assert.NoError(t, err)
}

func TestSQLiteStorage_UpsertSameSignal(t *testing.T) {
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	// Mismo ticker en dos ciclos: el segundo con strength distinta no debe
	// fallar por clave duplicada.
	require.NoError(t, s.SaveScan(ctx, testScan("scan-1", passResult("AAPL", 70))))
	require.NoError(t, s.SaveScan(ctx, testScan("scan-2", passResult("AAPL", 90))))

	// Y un tercero sin cambio significativo tampoco.
	require.NoError(t, s.SaveScan(ctx, testScan("scan-3", passResult("AAPL", 90))))
}

func TestSQLiteStorage_Close(t *testing.T) {
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
