package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SAFE conversion pricing. A note converts at the most investor-favorable of
// the round price, the cap-implied price and the discounted price, whichever
// of cap/discount the note carries.

// priceTolerance is the convergence threshold of the post-money fixed-point
// solver, and maxPriceRounds bounds the iteration. Convergence is not
// formally guaranteed; after maxPriceRounds the last iterate is accepted as
// the round price.
var priceTolerance = decimal.RequireFromString("0.0001")

const maxPriceRounds = 10

// EffectivePrice returns the per-share price at which the note converts,
// given the round price and the pre-round fully diluted share count used to
// translate the valuation cap into a price.
func (s *SAFE) EffectivePrice(roundPrice Money, preRoundFD Quantity) Money {
	price := roundPrice
	if !s.Cap.IsZero() && preRoundFD.IsPositive() {
		capPrice := s.Cap.Div(preRoundFD)
		if capPrice.LessThan(price) {
			price = capPrice
		}
	}
	if !s.Discount.IsZero() {
		factor := decimal.NewFromInt(1).Sub(s.Discount.Div(hundred))
		discountPrice := roundPrice.MulFactor(factor)
		if discountPrice.LessThan(price) {
			price = discountPrice
		}
	}
	return price
}

// ConversionShares returns the whole number of shares the note receives at
// the given round price, rounded half-up.
func (s *SAFE) ConversionShares(roundPrice Money, preRoundFD Quantity) Quantity {
	return s.Principal.DivPrice(s.EffectivePrice(roundPrice, preRoundFD)).RoundHalfUp()
}

// totalSafeShares sums the conversion shares of all notes at a price.
func totalSafeShares(safes []*SAFE, roundPrice Money, preRoundFD Quantity) Quantity {
	total := Q(0)
	for _, s := range safes {
		total = total.Add(s.ConversionShares(roundPrice, preRoundFD))
	}
	return total
}

// solvePostMoneyPrice computes the share price of a round whose valuation is
// post-money. The price depends on how many shares the SAFEs consume, which
// depends on the price, so it is solved by fixed-point iteration: seed from
// (postMoney - newMoney) / preRoundFD, then repeatedly recompute
// postMoney / (preRoundFD + newInvestorShares + safeShares) until the price
// moves by less than priceTolerance or maxPriceRounds is reached.
//
// The seed must be positive: a post-money valuation at or below the new
// money implies a zero or negative price and the iteration divides by it.
func solvePostMoneyPrice(postMoney, newMoney Money, preRoundFD Quantity, safes []*SAFE) (Money, error) {
	price := postMoney.Sub(newMoney).Div(preRoundFD)
	if !price.IsPositive() {
		return price, fmt.Errorf("post-money valuation %v must exceed the new money %v", postMoney, newMoney)
	}
	for i := 0; i < maxPriceRounds; i++ {
		safeShares := totalSafeShares(safes, price, preRoundFD)
		newShares := newMoney.DivPrice(price)
		next := postMoney.Div(preRoundFD.Add(newShares).Add(safeShares))
		if next.Sub(price).Decimal().Abs().LessThan(priceTolerance) {
			return next, nil
		}
		price = next
	}
	return price, nil
}

// roundPrice determines the per-share price of a priced round over the
// given pre-round state.
func roundPrice(ev PricedRound, preRoundFD Quantity, safes []*SAFE) (Money, error) {
	newMoney := M(decimal.Zero, ev.Valuation.Currency())
	for _, inv := range ev.Investments {
		newMoney = newMoney.Add(inv.Amount)
	}
	if ev.Basis == PostMoney {
		return solvePostMoneyPrice(ev.Valuation, newMoney, preRoundFD, safes)
	}
	return ev.Valuation.Div(preRoundFD), nil
}
