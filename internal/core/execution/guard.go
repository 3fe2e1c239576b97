package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// checkLimits returns a non-empty reason when the configured buy limits
// forbid this run. Zero limits are disabled.
func (s *Service) checkLimits(ctx context.Context) (string, error) {
	lim := s.settings.Limits
	hold := s.settings.HoldCurrency

	if lim.MaxAmount > 0 {
		ceiling := decimal.NewFromFloat(lim.MaxAmount)
		if s.settings.Amount.GreaterThan(ceiling) {
			return fmt.Sprintf("주문 금액 %s %s 이(가) 최대 한도 %s %s 를 초과합니다",
				s.settings.Amount, hold, ceiling, hold), nil
		}
	}

	if lim.MinHoldBalance > 0 {
		available, err := s.holdAvailable(ctx)
		if err != nil {
			return "", err
		}
		floor := decimal.NewFromFloat(lim.MinHoldBalance)
		if available.LessThan(floor) {
			return fmt.Sprintf("보유 %s %s 이(가) 최소 보유량 %s %s 보다 적습니다",
				available, hold, floor, hold), nil
		}
	}
	return "", nil
}

func (s *Service) holdAvailable(ctx context.Context) (decimal.Decimal, error) {
	hold := s.settings.HoldCurrency
	balances, err := s.exchange.GetBalances(ctx, hold)
	if err != nil {
		return decimal.Zero, fmt.Errorf("hold balance %s: %w", hold, err)
	}
	for _, b := range balances {
		if strings.EqualFold(b.Currency, hold) {
			return b.Available, nil
		}
	}
	return decimal.Zero, nil
}
