package yahoo

import (
	"github.com/alejandrodnm/edgescan/internal/domain"
)

// DTOs del chart endpoint (v8/finance/chart).

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// DTOs del options endpoint (v7/finance/options).

type optionsResponse struct {
	OptionChain struct {
		Result []optionsResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"optionChain"`
}

type optionsResult struct {
	Quote struct {
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		EarningsTimestamp  *int64  `json:"earningsTimestamp"`
	} `json:"quote"`
	ExpirationDates []int64 `json:"expirationDates"`
	Options         []struct {
		ExpirationDate int64       `json:"expirationDate"`
		Calls          []optionRow `json:"calls"`
		Puts           []optionRow `json:"puts"`
	} `json:"options"`
}

type optionRow struct {
	Strike       float64 `json:"strike"`
	Bid          float64 `json:"bid"`
	Ask          float64 `json:"ask"`
	Volume       *int    `json:"volume"`
	OpenInterest *int    `json:"openInterest"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// mapRows convierte las filas del DTO al tipo de dominio.
func mapRows(rows []optionRow) []domain.OptionRow {
	out := make([]domain.OptionRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.OptionRow{
			Strike:       r.Strike,
			Bid:          r.Bid,
			Ask:          r.Ask,
			Volume:       r.Volume,
			OpenInterest: r.OpenInterest,
		})
	}
	return out
}
