package config

// Universo por defecto: los tickers del S&P 100 (OEX). Nombres líquidos con
// cadenas de opciones decentes, sin small caps ilíquidas.
var sp100 = []string{
	"AAPL", "ABBV", "ABT", "ACN", "ADBE", "AIG", "AMD", "AMGN", "AMT", "AMZN",
	"AVGO", "AXP", "BA", "BAC", "BK", "BKNG", "BLK", "BMY", "BRK-B", "C",
	"CAT", "CHTR", "CL", "CMCSA", "COF", "COP", "COST", "CRM", "CSCO", "CVS",
	"CVX", "DE", "DHR", "DIS", "DOW", "DUK", "EMR", "EXC", "F", "FDX",
	"GD", "GE", "GILD", "GM", "GOOG", "GOOGL", "GS", "HD", "HON", "IBM",
	"INTC", "JNJ", "JPM", "KHC", "KO", "LIN", "LLY", "LMT", "LOW", "MA",
	"MCD", "MDLZ", "MDT", "MET", "META", "MMM", "MO", "MRK", "MS", "MSFT",
	"NEE", "NFLX", "NKE", "NVDA", "ORCL", "PEP", "PFE", "PG", "PM", "PYPL",
	"QCOM", "RTX", "SBUX", "SCHW", "SO", "SPG", "T", "TGT", "TMO", "TMUS",
	"TXN", "UNH", "UNP", "UPS", "USB", "V", "VZ", "WBA", "WFC", "WMT", "XOM",
}

// SP100Tickers devuelve una copia del universo por defecto.
func SP100Tickers() []string {
	out := make([]string, len(sp100))
	copy(out, sp100)
	return out
}

// defaultExcluded son nombres demasiado volátiles o meme para spreads.
func defaultExcluded() []string {
	return []string{"GME", "AMC", "BBBY", "RIVN", "LCID"}
}
