package domain

// BudgetFloor is the minimum generation budget in minor currency units.
const BudgetFloor int64 = 50

// Currency is a settlement currency accepted by the paywall.
type Currency string

const (
	CurrencyUSDC Currency = "USDC"
	CurrencyETH  Currency = "ETH"
	CurrencyEURC Currency = "EURC"
)

// PaymentDetails is a priced quote the caller has to pay before generation
// may proceed. Amount is expressed in major units (e.g. 0.5 USDC).
type PaymentDetails struct {
	Amount          float64  `json:"amount"`
	Currency        Currency `json:"currency"`
	ReceiverAddress string   `json:"receiverAddress"`
	ChainID         int64    `json:"chainId"`
}

// PaymentProof is the caller's evidence that a quote has been paid.
type PaymentProof struct {
	TransactionHash string  `json:"transactionHash"`
	Quantity        float64 `json:"quantity"`
}

// Payment carries the proof for a previously issued quote.
type Payment struct {
	QuoteID string        `json:"quoteId,omitempty"`
	Proof   *PaymentProof `json:"proof,omitempty"`
}

// MinorToMajor converts minor currency units (cents) into major units.
func MinorToMajor(minor int64) float64 {
	return float64(minor) / 100
}
