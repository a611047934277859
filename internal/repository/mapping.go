package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/somah-market/backend/internal/domain"
)

// Money columns are selected with ::text casts and parsed here, so no custom
// numeric codec has to be registered on the pool.
func parseMoney(s string) (domain.Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return domain.Money{}, fmt.Errorf("decimal.NewFromString[%s]: %w", s, err)
	}

	return domain.NewMoney(amount), nil
}

func moneyParam(m domain.Money) string {
	return m.Amount.StringFixed(2)
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
