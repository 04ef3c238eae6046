package configs

import "time"

// Payment configures the generation payment gate.
type Payment struct {
	// Mode is "budget" (floor check only) or "quote" (x402 quote and proof).
	Mode            string        `env:"MODE" envDefault:"budget"`
	Currency        string        `env:"CURRENCY" envDefault:"USDC"`
	ReceiverAddress string        `env:"RECEIVER_ADDRESS" envDefault:"0x0000000000000000000000000000000000000000"`
	ChainID         int64         `env:"CHAIN_ID" envDefault:"8453"`
	QuoteTTL        time.Duration `env:"QUOTE_TTL" envDefault:"15m"`
}
