package storefront

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
)

// Config carries environment-driven settings for the storefront process.
type Config struct {
	Port string

	AuthAPIURL  string
	AuthTimeout time.Duration

	PostgresDSN   string
	CredentialKey string
	CredentialTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartKey       string

	KafkaBrokers []string
	KafkaTopic   string

	PaymentURL      string
	PaymentStubMax  decimal.Decimal
	PaymentFailures uint32
	PaymentCooldown time.Duration

	Pricing    cartdomain.PricingPolicy
	Promotions cartdomain.PromotionRules

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadDotEnv reads a .env file into the environment if present. Existing variables win.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		AuthAPIURL:        strings.TrimRight(envDefault("AUTH_API_URL", "http://localhost:5000/api"), "/"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CredentialKey:     envDefault("CREDENTIAL_KEY", "token"),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		CartKey:           envDefault("CART_SNAPSHOT_KEY", "cart:default"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_CHECKOUT_TOPIC", "storefront.checkout"),
		PaymentURL:        strings.TrimSpace(os.Getenv("PAYMENT_URL")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}

	var err error
	if cfg.AuthTimeout, err = durationSeconds("AUTH_TIMEOUT_SECONDS", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CredentialTTL, err = durationHours("CREDENTIAL_TTL_HOURS", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.PaymentCooldown, err = durationSeconds("PAYMENT_BREAKER_COOLDOWN_SECONDS", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = positiveInt("REDIS_DB", 0, true); err != nil {
		return Config{}, err
	}
	failures, err := positiveInt("PAYMENT_BREAKER_FAILURES", 5, false)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentFailures = uint32(failures)
	if cfg.PaymentStubMax, err = decimalEnv("PAYMENT_STUB_MAX_TOTAL", decimal.Zero); err != nil {
		return Config{}, err
	}

	defaults := cartdomain.DefaultPricingPolicy()
	cfg.Pricing = defaults
	if cfg.Pricing.FreeDeliveryThreshold, err = decimalEnv("FREE_DELIVERY_THRESHOLD", defaults.FreeDeliveryThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.DeliveryFee, err = decimalEnv("DELIVERY_FEE", defaults.DeliveryFee); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.TaxRate, err = decimalEnv("TAX_RATE", defaults.TaxRate); err != nil {
		return Config{}, err
	}
	if err := cfg.Pricing.Validate(); err != nil {
		return Config{}, fmt.Errorf("pricing policy: %w", err)
	}

	cfg.Promotions = cartdomain.DefaultPromotionRules()
	if raw := strings.TrimSpace(os.Getenv("PROMOTION_RULES")); raw != "" {
		extra, err := cartdomain.ParsePromotionRules(raw)
		if err != nil {
			return Config{}, fmt.Errorf("PROMOTION_RULES: %w", err)
		}
		cfg.Promotions = cfg.Promotions.Merge(extra)
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positiveInt(key string, fallback int, allowZero bool) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || (n == 0 && !allowZero) {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func durationSeconds(key string, fallback time.Duration) (time.Duration, error) {
	n, err := positiveInt(key, 0, false)
	if err != nil || n == 0 {
		return fallback, err
	}
	return time.Duration(n) * time.Second, nil
}

func durationHours(key string, fallback time.Duration) (time.Duration, error) {
	n, err := positiveInt(key, 0, false)
	if err != nil || n == 0 {
		return fallback, err
	}
	return time.Duration(n) * time.Hour, nil
}

func decimalEnv(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number", key)
	}
	return d, nil
}
