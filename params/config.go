package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Wallet holds the maker credentials. Values are taken as-is from the
// environment; a missing value surfaces when the first component uses it.
type Wallet struct {
	MakerAddress string // lower-cased
	PrivateKey   string // hex, 0x prefix optional
}

type Node struct {
	URL       string
	NetworkID uint64
	// Cancellation gas settings. Zero means ask the node.
	GasPriceGwei uint64
	GasLimit     uint64
}

type Relayer struct {
	URL string
	// NetworkID is sent with every relayer request. It defaults to the
	// order network; see Config.RelayerNetworkMismatch.
	NetworkID uint64
	// Timeout bounds each relayer request. Zero waits indefinitely.
	Timeout time.Duration
}

// Order describes the single WETH -> ZRX order the command places.
type Order struct {
	SellAmount   string // human units of the maker token (WETH)
	BuyAmount    string // human units of the taker token (ZRX)
	Decimals     int32
	FeeRecipient string
	Expiration   time.Duration
}

type Config struct {
	Wallet   Wallet
	Node     Node
	Relayer  Relayer
	Order    Order
	LogLevel string
}

const (
	NullAddress = "0x0000000000000000000000000000000000000000"

	KovanNetworkID = 42
)

func Default() Config {
	return Config{
		Node: Node{
			NetworkID: KovanNetworkID,
		},
		Relayer: Relayer{
			URL:       "https://api.kovan.radarrelay.com/0x/v2",
			NetworkID: KovanNetworkID,
		},
		Order: Order{
			SellAmount:   "0.002",
			BuyAmount:    "10",
			Decimals:     18,
			FeeRecipient: "0xa258b39954cef5cb142fd567a46cddb31a670124", // Radar
			Expiration:   360 * time.Second,
		},
		LogLevel: "info",
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.Wallet.MakerAddress = strings.ToLower(os.Getenv("MAKER_ADDRESS"))
	cfg.Wallet.PrivateKey = os.Getenv("PRIVATE_KEY")
	cfg.Node.URL = os.Getenv("ETH_NODE_URL")

	if id, ok := getUint("NETWORK_ID"); ok {
		cfg.Node.NetworkID = id
	}
	// The relayer follows the order network unless told otherwise.
	cfg.Relayer.NetworkID = cfg.Node.NetworkID
	if id, ok := getUint("RELAYER_NETWORK_ID"); ok {
		cfg.Relayer.NetworkID = id
	}
	cfg.Relayer.URL = getEnv("SRA_URL", cfg.Relayer.URL)
	if secs, ok := getUint("RELAYER_TIMEOUT_SECONDS"); ok {
		cfg.Relayer.Timeout = time.Duration(secs) * time.Second
	}

	if gwei, ok := getUint("GAS_PRICE_GWEI"); ok {
		cfg.Node.GasPriceGwei = gwei
	}
	if limit, ok := getUint("GAS_LIMIT"); ok {
		cfg.Node.GasLimit = limit
	}

	cfg.Order.SellAmount = getEnv("SELL_AMOUNT", cfg.Order.SellAmount)
	cfg.Order.BuyAmount = getEnv("BUY_AMOUNT", cfg.Order.BuyAmount)
	cfg.Order.FeeRecipient = strings.ToLower(getEnv("FEE_RECIPIENT", cfg.Order.FeeRecipient))
	if secs, ok := getUint("EXPIRATION_SECONDS"); ok {
		cfg.Order.Expiration = time.Duration(secs) * time.Second
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return cfg
}

// RelayerNetworkMismatch reports whether orders are built for one network
// and submitted to the relayer under another.
func (c Config) RelayerNetworkMismatch() bool {
	return c.Relayer.NetworkID != c.Node.NetworkID
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getUint(key string) (uint64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
