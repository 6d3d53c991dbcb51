// Package notify implementa ports.Notifier sobre la consola.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/edge"
	"github.com/alejandrodnm/edgescan/internal/strategy"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resultado de un scan en el modo configurado.
func (c *Console) Notify(_ context.Context, scan domain.Scan) error {
	if len(scan.Results) == 0 {
		fmt.Fprintf(c.out, "[%s] %s: no tickers evaluated\n",
			time.Now().Format("15:04:05"), scan.StrategyName)
		return nil
	}

	if c.table {
		c.printFull(scan)
	} else {
		c.printCompact(scan)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(scan domain.Scan) {
	now := time.Now().Format("15:04:05")
	passed := scan.PassedCount()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %d evaluated → %d signals, %d spreads",
		now, scan.StrategyName, len(scan.Results), passed, len(scan.Candidates))

	shown := 0
	for _, r := range scan.Results {
		if !r.Passed || shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s %s %s str:%.0f",
			r.Ticker, directionTag(r.Direction), r.TradeType, r.SignalStrength)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime las tablas de señales y spread candidates.
func (c *Console) printFull(scan domain.Scan) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] %s — %d evaluated, %d signals, best strength %.0f\n",
		now, scan.StrategyName, len(scan.Results), scan.PassedCount(), scan.BestStrength())

	c.printResults(scan.Results)

	if len(scan.Candidates) > 0 {
		fmt.Fprintf(c.out, "\n=== SPREAD CANDIDATES (top %d by risk/reward) ===\n", len(scan.Candidates))
		c.printCandidates(scan.Candidates)
	}
}

// printResults imprime la tabla de resultados ordenada.
func (c *Console) printResults(results []domain.StrategyResult) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticker", "Signal", "Dir", "Trade", "Strength", "Reasons")

	for i, r := range results {
		status := "-"
		if r.Passed {
			status = "PASS"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			r.Ticker,
			status,
			directionTag(r.Direction),
			r.TradeType,
			fmt.Sprintf("%.0f", r.SignalStrength),
			truncate(strings.Join(r.Reasons, "; "), 60),
		)
	}

	table.Render()
}

// printCandidates imprime los spreads construibles con sus métricas.
func (c *Console) printCandidates(cands []domain.SpreadCandidate) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Type", "Long", "Short", "Exp", "DTE", "Debit", "MaxP", "R:R", "BE", "Sprd%")

	for _, cd := range cands {
		table.Append(
			cd.Ticker,
			cd.SpreadType,
			fmt.Sprintf("%.1f", cd.Long.Strike),
			fmt.Sprintf("%.1f", cd.Short.Strike),
			cd.Expiration,
			fmt.Sprintf("%d", cd.DTE),
			fmt.Sprintf("$%.2f", cd.MidDebit),
			fmt.Sprintf("$%.2f", cd.MaxProfit),
			fmt.Sprintf("%.2f", cd.RiskReward),
			fmt.Sprintf("%.2f", cd.Breakeven),
			fmt.Sprintf("%.1f%%", cd.SpreadPct*100),
		)
	}

	table.Render()

	fmt.Fprintln(c.out, "  Debit = mid price per spread | MaxP = width - debit | BE = breakeven at expiry")
	fmt.Fprintln(c.out, "  Sprd% = avg bid/ask spread of both legs (execution cost proxy)")
}

// PrintStrategies imprime el menú de estrategias disponibles.
func (c *Console) PrintStrategies(infos []strategy.Info) {
	fmt.Fprintln(c.out, "\n=== AVAILABLE STRATEGIES ===")

	table := tablewriter.NewWriter(c.out)
	table.Header("Key", "Alias", "Name", "Edge", "Risk", "Win rate", "Hold")

	for _, info := range infos {
		table.Append(
			info.Key,
			info.Alias,
			info.Name,
			truncate(info.EdgeType, 40),
			info.RiskLevel,
			fmt.Sprintf("%.0f%%", info.ExpectedWinRate*100),
			fmt.Sprintf("%dd", info.TypicalHoldDays),
		)
	}

	table.Render()
}

// PrintEdge imprime el resultado del pipeline de filtros legacy.
func (c *Console) PrintEdge(results []edge.FilterResult) {
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	fmt.Fprintf(c.out, "\n[%s] edge filter pipeline — %d evaluated, %d passed all filters\n",
		time.Now().Format("15:04:05"), len(results), passed)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticker", "Status", "Trend", "Vol", "Events", "Liq", "Total", "Reasons")

	for i, r := range results {
		status := "-"
		if r.Passed {
			status = "PASS"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			r.Ticker,
			status,
			fmt.Sprintf("%d", r.Scores.Trend),
			fmt.Sprintf("%d", r.Scores.Volatility),
			fmt.Sprintf("%d", r.Scores.Events),
			fmt.Sprintf("%d", r.Scores.Liquidity),
			fmt.Sprintf("%d", r.Scores.Total),
			truncate(strings.Join(r.Reasons, "; "), 50),
		)
	}

	table.Render()
}

// directionTag abrevia la dirección para las tablas.
func directionTag(d domain.Direction) string {
	switch d {
	case domain.Bullish:
		return "BULL"
	case domain.Bearish:
		return "BEAR"
	case domain.Neutral:
		return "NEUT"
	default:
		return "-"
	}
}

// truncate corta un string a max caracteres con elipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
