/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package money holds the integer-cents amount type used by every balance
// in the ledger. Amounts are parsed from and rendered to the pt-BR display
// format ("1.234,56") without going through floating point.
package money

import (
	"regexp"
	"strconv"
	"strings"

	"wallet-ledger-go/internal/apperrors"

	"github.com/shopspring/decimal"
)

const (
	CurrencySymbol = "R$"

	MsgInvalidFormat = "Invalid money format. Use format like 12.398,90"
	MsgInvalidCents  = "Cents value must be an integer"
)

// Plain digits are accepted alongside grouped ones ("1234,56" and "1.234,56").
var displayRegex = regexp.MustCompile(`^(\d{1,3}(\.\d{3})*|\d+),\d{2}$`)

// Money is an immutable amount in cents.
type Money struct {
	cents int64
}

var Zero = Money{}

// Parse converts a display string like "12.398,90" into Money.
func Parse(display string) (Money, error) {
	const op = "money.Parse"

	if !displayRegex.MatchString(display) {
		return Zero, apperrors.New(apperrors.InvalidFormat, op, MsgInvalidFormat)
	}

	digits := strings.NewReplacer(".", "", ",", "").Replace(display)
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// only reachable on int64 overflow
		return Zero, apperrors.Wrap(apperrors.InvalidFormat, op, MsgInvalidFormat, err)
	}

	return Money{cents: cents}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(display string) Money {
	m, err := Parse(display)
	if err != nil {
		panic(err)
	}
	return m
}

// FromCents builds Money from a caller-supplied cents value, which must not be negative.
func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Zero, apperrors.New(apperrors.InvalidFormat, "money.FromCents", MsgInvalidCents)
	}
	return Money{cents: cents}, nil
}

// New builds Money from stored cents. Balances can legitimately be negative,
// so unlike FromCents no sign check is applied.
func New(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsNegative() bool {
	return m.cents < 0
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) Increase(cents int64) Money {
	return Money{cents: m.cents + cents}
}

// Decrease has no floor: a balance may go below zero.
func (m Money) Decrease(cents int64) Money {
	return Money{cents: m.cents - cents}
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// ToDecimal returns the amount in currency units, e.g. 123456 cents -> 1234.56.
func (m Money) ToDecimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// Format renders the amount without currency symbol: "1.234,56".
func (m Money) Format() string {
	cents := m.cents
	negative := cents < 0
	if negative {
		cents = -cents
	}

	units := strconv.FormatInt(cents/100, 10)
	fraction := cents % 100

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	if fraction < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(fraction, 10))
	return b.String()
}

// Display renders the amount with currency symbol: "R$ 1.234,56", "-R$ 10,00".
func (m Money) Display() string {
	if m.cents < 0 {
		return "-" + CurrencySymbol + " " + m.Abs().Format()
	}
	return CurrencySymbol + " " + m.Format()
}

func (m Money) Abs() Money {
	if m.cents < 0 {
		return Money{cents: -m.cents}
	}
	return m
}

func (m Money) String() string {
	return m.Display()
}
