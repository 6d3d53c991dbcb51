package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const (
	// Ventana preferida de vencimientos para spreads: suficiente theta sin
	// exposición a gamma de corto plazo.
	dtePreferredMin = 30
	dtePreferredMax = 45

	// Ventana de fallback cuando no hay vencimientos en la preferida.
	dteFallbackMin = 20
	dteFallbackMax = 60

	// Mínimo de velas para calcular MA50 y el resto de indicadores.
	minBars = 50

	// Workers del fetch concurrente. Los rate limiters del client acotan el
	// throughput real; más workers solo añadirían contención en el limiter.
	fetchWorkers = 4
)

// Provider implementa ports.MarketDataProvider contra Yahoo Finance.
type Provider struct {
	client *Client
	now    func() time.Time
}

// NewProvider crea un Provider sobre el client dado.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client, now: time.Now}
}

// FetchMetrics descarga precio histórico y cadena de opciones para cada
// ticker con un worker pool y deriva las métricas técnicas. Un fallo en un
// ticker lo excluye del mapa pero no aborta el batch; solo devuelve error si
// ningún ticker produjo datos.
func (p *Provider) FetchMetrics(ctx context.Context, tickers []string) (map[string]domain.TickerMetrics, error) {
	type fetched struct {
		ticker string
		m      domain.TickerMetrics
	}

	workCh := make(chan string, len(tickers))
	resultCh := make(chan fetched, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < fetchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range workCh {
				if ctx.Err() != nil {
					continue
				}
				m, err := p.fetchOne(ctx, ticker)
				if err != nil {
					slog.Warn("skipping ticker", "ticker", ticker, "err", err)
					continue
				}
				resultCh <- fetched{ticker: ticker, m: m}
			}
		}()
	}

	for _, ticker := range tickers {
		workCh <- ticker
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := make(map[string]domain.TickerMetrics, len(tickers))
	for f := range resultCh {
		out[f.ticker] = f.m
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 && len(tickers) > 0 {
		return nil, fmt.Errorf("yahoo.FetchMetrics: no data for any of %d tickers", len(tickers))
	}
	return out, nil
}

// fetchOne construye las métricas completas de un ticker.
func (p *Provider) fetchOne(ctx context.Context, ticker string) (domain.TickerMetrics, error) {
	closes, lastPrice, err := p.fetchCloses(ctx, ticker)
	if err != nil {
		return domain.TickerMetrics{}, err
	}
	if len(closes) < minBars {
		return domain.TickerMetrics{}, fmt.Errorf("only %d bars of history", len(closes))
	}

	m := domain.TickerMetrics{Price: round2(lastPrice)}

	if v, ok := sma(closes, maShortWindow); ok {
		m.MA20 = domain.Float(round2(v))
	}
	if v, ok := sma(closes, maLongWindow); ok {
		m.MA50 = domain.Float(round2(v))
	}
	if v, ok := pctChange(closes, 1); ok {
		m.Return1D = domain.Float(round2(v))
	}
	if v, ok := pctChange(closes, 5); ok {
		m.Return5D = domain.Float(round2(v))
	}
	if v, ok := pctChange(closes, 20); ok {
		m.Return20D = domain.Float(round2(v))
	}
	if v, ok := realizedVol(closes); ok {
		m.RealizedVol = domain.Float(round2(v))
	}
	if v, ok := rsi(closes); ok {
		m.RSI = domain.Float(round1(v))
	}
	if v, ok := ivRank(closes); ok {
		m.IVRank = domain.Float(v)
	}

	// La cadena de opciones y el earnings date salen del endpoint de
	// opciones; su ausencia no invalida el ticker.
	chain, earnings, err := p.fetchOptions(ctx, ticker)
	if err != nil {
		slog.Debug("no options data", "ticker", ticker, "err", err)
	} else {
		m.Options = chain
		m.EarningsDate = earnings
	}

	return m, nil
}

// fetchCloses descarga un año de velas diarias y devuelve los cierres
// válidos más el último precio conocido.
func (p *Provider) fetchCloses(ctx context.Context, ticker string) ([]float64, float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=1y&interval=1d", p.client.baseURL, ticker)

	var resp chartResponse
	if err := p.client.get(ctx, p.client.chartLimiter, url, &resp); err != nil {
		return nil, 0, fmt.Errorf("chart request: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, 0, fmt.Errorf("chart API error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, 0, fmt.Errorf("empty chart response")
	}

	result := resp.Chart.Result[0]
	raw := result.Indicators.Quote[0].Close

	closes := make([]float64, 0, len(raw))
	for _, c := range raw {
		if c == nil || *c <= 0 {
			continue
		}
		closes = append(closes, *c)
	}
	if len(closes) == 0 {
		return nil, 0, fmt.Errorf("no valid closes")
	}

	last := closes[len(closes)-1]
	if result.Meta.RegularMarketPrice > 0 {
		last = result.Meta.RegularMarketPrice
	}
	return closes, last, nil
}

// fetchOptions selecciona el vencimiento dentro de la ventana 30-45 DTE
// (fallback 20-60) y descarga la cadena completa. Devuelve también el
// próximo earnings date en formato YYYY-MM-DD si Yahoo lo expone.
func (p *Provider) fetchOptions(ctx context.Context, ticker string) (*domain.OptionsChain, string, error) {
	base := fmt.Sprintf("%s/v7/finance/options/%s", p.client.baseURL, ticker)

	var resp optionsResponse
	if err := p.client.get(ctx, p.client.optionsLimiter, base, &resp); err != nil {
		return nil, "", fmt.Errorf("options request: %w", err)
	}
	if resp.OptionChain.Error != nil {
		return nil, "", fmt.Errorf("options API error: %s", resp.OptionChain.Error.Description)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, "", fmt.Errorf("empty options response")
	}

	result := resp.OptionChain.Result[0]

	earnings := ""
	if ts := result.Quote.EarningsTimestamp; ts != nil {
		earnings = time.Unix(*ts, 0).UTC().Format("2006-01-02")
	}

	expEpoch, dte, ok := p.pickExpiration(result.ExpirationDates)
	if !ok {
		return nil, earnings, fmt.Errorf("no expiration in %d-%d DTE window", dteFallbackMin, dteFallbackMax)
	}

	// La primera respuesta trae la cadena del vencimiento más cercano;
	// para el elegido hace falta una segunda llamada con date=.
	chainURL := fmt.Sprintf("%s?date=%d", base, expEpoch)
	var chainResp optionsResponse
	if err := p.client.get(ctx, p.client.optionsLimiter, chainURL, &chainResp); err != nil {
		return nil, earnings, fmt.Errorf("options chain request: %w", err)
	}
	if len(chainResp.OptionChain.Result) == 0 || len(chainResp.OptionChain.Result[0].Options) == 0 {
		return nil, earnings, fmt.Errorf("empty chain for expiration %d", expEpoch)
	}

	chainResult := chainResp.OptionChain.Result[0]
	opts := chainResult.Options[0]

	price := chainResult.Quote.RegularMarketPrice
	if price <= 0 {
		price = result.Quote.RegularMarketPrice
	}

	return &domain.OptionsChain{
		CurrentPrice: price,
		Expiration:   time.Unix(opts.ExpirationDate, 0).UTC().Format("2006-01-02"),
		DTE:          dte,
		Calls:        mapRows(opts.Calls),
		Puts:         mapRows(opts.Puts),
	}, earnings, nil
}

// pickExpiration elige el primer vencimiento en la ventana 30-45 DTE; si no
// hay ninguno, el primero en la ventana 20-60.
func (p *Provider) pickExpiration(expirations []int64) (epoch int64, dte int, ok bool) {
	today := p.now().UTC().Truncate(24 * time.Hour)

	for _, exp := range expirations {
		d := daysUntil(today, exp)
		if d >= dtePreferredMin && d <= dtePreferredMax {
			return exp, d, true
		}
	}
	for _, exp := range expirations {
		d := daysUntil(today, exp)
		if d >= dteFallbackMin && d <= dteFallbackMax {
			return exp, d, true
		}
	}
	return 0, 0, false
}

// daysUntil cuenta días de calendario desde today hasta el epoch dado.
func daysUntil(today time.Time, epoch int64) int {
	exp := time.Unix(epoch, 0).UTC().Truncate(24 * time.Hour)
	return int(exp.Sub(today).Hours() / 24)
}
