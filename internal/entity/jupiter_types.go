package entity

// JupiterPriceResponse is the response of the Jupiter price endpoint.
// Ids the API cannot price are absent from Data or mapped to null.
type JupiterPriceResponse struct {
	Data      map[string]*JupiterPrice `json:"data"`
	TimeTaken float64                  `json:"timeTaken"`
}

// JupiterPrice is the price entry of one asset.
type JupiterPrice struct {
	ID            string  `json:"id"`
	MintSymbol    string  `json:"mintSymbol"`
	VsToken       string  `json:"vsToken"`
	VsTokenSymbol string  `json:"vsTokenSymbol"`
	Price         float64 `json:"price"`
}
