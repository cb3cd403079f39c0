package constants

// Redis keys
const (
	RedisKeyRecentExecutions = "executions:recent"
	RedisKeyPricePrefix      = "price:"
)

// Redis Pub/Sub channels
const (
	PubSubChannelExecutions = "executions:live"
)

// Limits
const (
	MaxRecentExecutions = 100
)

// Venue identifiers used in quotes and telemetry
const (
	VenueJupiter    = "jupiter"
	VenueOrcaLegacy = "orca-legacy"
)

// Relay provider identifiers
const (
	ProviderJitoPrefix = "jito"
	ProviderRPC        = "rpc"
)

// DEX program addresses
var ProgramAddresses = map[string]string{
	"Jupiter": "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
	// Orca legacy constant-product swap program
	"Orca": "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
}

// TokenDecimals maps token symbols to their decimal places
var TokenDecimals = map[string]uint8{
	"SOL":  9,
	"USDC": 6,
	"USDT": 6,
	"JUP":  6,
	"RAY":  6,
	"BONK": 5,
}

// TokenMints maps token symbols to their mint addresses
var TokenMints = map[string]string{
	"SOL":  "So11111111111111111111111111111111111111112",
	"USDC": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"USDT": "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
	"JUP":  "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN",
	"RAY":  "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R",
	"BONK": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
}

// TokenSymbols is the reverse mapping of TokenMints
var TokenSymbols = func() map[string]string {
	m := make(map[string]string, len(TokenMints))
	for sym, mint := range TokenMints {
		m[mint] = sym
	}
	return m
}()
