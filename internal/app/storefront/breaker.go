package storefront

import (
	"log/slog"

	"github.com/sony/gobreaker/v2"

	checkoutpayment "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/payment"
)

func breakerSettings(cfg Config, logger *slog.Logger) checkoutpayment.BreakerSettings {
	return checkoutpayment.BreakerSettings{
		ConsecutiveFailures: cfg.PaymentFailures,
		OpenTimeout:         cfg.PaymentCooldown,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
}
