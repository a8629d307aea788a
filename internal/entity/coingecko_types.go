package entity

// CoinGeckoSimplePrice maps coin id to currency to price, e.g. {"solana":{"usd":142.1}}.
type CoinGeckoSimplePrice map[string]map[string]float64
