package storage

// sqlite.go — histórico de scans eficiente y sin ruido.
//
// Estrategia:
//   - `scans`: resumen ligero por ciclo (evaluados, señales, best strength).
//     Siempre 1 fila.
//   - `signals`: UNA fila por (ticker, estrategia) con UPSERT. Solo se
//     persisten las señales que pasaron — los rechazos no aportan señal
//     útil como histórico.
//   - Cache en memoria: evita writes si la señal no cambió (> 5% en
//     strength o cambio de trade type). En ciclos consecutivos la mayoría
//     de señales no cambian.
//   - Prune automático al arrancar: scans > 30d, señales no vistas en 14d.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Resumen ligero por ciclo de scan
CREATE TABLE IF NOT EXISTS scans (
    id            TEXT PRIMARY KEY,
    strategy_key  TEXT     NOT NULL,
    strategy_name TEXT     NOT NULL,
    started_at    DATETIME NOT NULL,
    duration_ms   INTEGER  NOT NULL DEFAULT 0,
    evaluated     INTEGER  NOT NULL DEFAULT 0,
    passed        INTEGER  NOT NULL DEFAULT 0,
    candidates    INTEGER  NOT NULL DEFAULT 0,
    best_strength REAL     NOT NULL DEFAULT 0
);

-- Una fila por señal viva (ticker × estrategia), sin duplicados
CREATE TABLE IF NOT EXISTS signals (
    ticker        TEXT NOT NULL,
    strategy_key  TEXT NOT NULL,
    direction     TEXT NOT NULL,
    trade_type    TEXT NOT NULL,
    strength      REAL NOT NULL DEFAULT 0,
    reasons       TEXT NOT NULL DEFAULT '',
    scan_id       TEXT NOT NULL,
    first_seen    DATETIME NOT NULL,
    last_seen     DATETIME NOT NULL,
    peak_strength REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (ticker, strategy_key)
);

CREATE INDEX IF NOT EXISTS idx_scans_at     ON scans(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_sig_last     ON signals(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_sig_strength ON signals(strength DESC);
`

const (
	retentionScans    = 30 * 24 * time.Hour
	retentionSignals  = 14 * 24 * time.Hour
	strengthChangePct = 0.05 // 5% de cambio en strength → reescribir
)

// cachedSignal es el snapshot del último estado guardado de una señal.
type cachedSignal struct {
	tradeType string
	strength  float64
}

// SQLiteStorage implementa ports.ScanStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[string]cachedSignal // "ticker|strategy" → estado guardado
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia datos antiguos y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[string]cachedSignal),
	}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// SaveScan persiste el resumen del ciclo y hace upsert de las señales que
// pasaron y cambiaron respecto al ciclo anterior (usando caché en memoria).
func (s *SQLiteStorage) SaveScan(ctx context.Context, scan domain.Scan) error {
	if len(scan.Results) == 0 {
		return nil
	}

	now := time.Now().UTC()

	// 1. Resumen del ciclo — siempre una fila
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, strategy_key, strategy_name, started_at, duration_ms,
		                    evaluated, passed, candidates, best_strength)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.StrategyKey, scan.StrategyName, scan.StartedAt.UTC(),
		scan.Duration.Milliseconds(), len(scan.Results), scan.PassedCount(),
		len(scan.Candidates), scan.BestStrength(),
	); err != nil {
		return fmt.Errorf("storage.SaveScan: insert scan: %w", err)
	}

	// 2. Upsert de señales que cambiaron
	toWrite := s.filterChanged(scan)
	if len(toWrite) == 0 {
		return nil // nada nuevo
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signals
			(ticker, strategy_key, direction, trade_type, strength, reasons,
			 scan_id, first_seen, last_seen, peak_strength)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, strategy_key) DO UPDATE SET
			direction     = excluded.direction,
			trade_type    = excluded.trade_type,
			strength      = excluded.strength,
			reasons       = excluded.reasons,
			scan_id       = excluded.scan_id,
			last_seen     = excluded.last_seen,
			peak_strength = MAX(peak_strength, excluded.strength)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range toWrite {
		if _, err := stmt.ExecContext(ctx,
			r.Ticker,
			scan.StrategyKey,
			string(r.Direction),
			r.TradeType,
			r.SignalStrength,
			strings.Join(r.Reasons, "; "),
			scan.ID,
			now, // first_seen: ignorado en ON CONFLICT (no se sobreescribe)
			now, // last_seen
			r.SignalStrength,
		); err != nil {
			return fmt.Errorf("storage.SaveScan: upsert %s: %w", r.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// filterChanged devuelve las señales que pasaron y cambiaron respecto al
// estado en caché, y actualiza la caché con el nuevo estado.
func (s *SQLiteStorage) filterChanged(scan domain.Scan) []domain.StrategyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toWrite []domain.StrategyResult
	for _, r := range scan.Results {
		if !r.Passed {
			continue
		}

		key := r.Ticker + "|" + scan.StrategyKey
		if prev, ok := s.cache[key]; ok {
			unchanged := prev.tradeType == r.TradeType &&
				relChange(prev.strength, r.SignalStrength) < strengthChangePct
			if unchanged {
				continue
			}
		}

		toWrite = append(toWrite, r)
		s.cache[key] = cachedSignal{
			tradeType: r.TradeType,
			strength:  r.SignalStrength,
		}
	}
	return toWrite
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffScans := time.Now().UTC().Add(-retentionScans)
	cutoffSignals := time.Now().UTC().Add(-retentionSignals)
	s.db.ExecContext(ctx, `DELETE FROM scans WHERE started_at < ?`, cutoffScans)
	s.db.ExecContext(ctx, `DELETE FROM signals WHERE last_seen < ?`, cutoffSignals)
}

// warmCache precarga la caché desde la DB al arrancar, evitando escrituras
// redundantes en el primer ciclo tras un reinicio.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker, strategy_key, trade_type, strength FROM signals`,
	)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var ticker, key, tradeType string
		var strength float64
		if rows.Scan(&ticker, &key, &tradeType, &strength) == nil {
			s.cache[ticker+"|"+key] = cachedSignal{
				tradeType: tradeType,
				strength:  strength,
			}
		}
	}
}

// relChange devuelve el cambio relativo entre dos valores.
func relChange(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(new-old) / math.Abs(old)
}
