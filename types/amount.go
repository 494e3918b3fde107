package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal amount as the transfer service expects it.
type Amount decimal.Decimal

// NewAmountFromStr creates a new Amount from a string
func NewAmountFromStr(str string) (Amount, error) {
	dec, err := decimal.NewFromString(str)
	return Amount(dec), err
}

// NewAmountFromInt64 creates a new Amount from an int64
func NewAmountFromInt64(i64 int64) Amount {
	return Amount(decimal.NewFromInt(i64))
}

// MustAmount is NewAmountFromStr for constants; it panics on bad input.
func MustAmount(str string) Amount {
	amount, err := NewAmountFromStr(str)
	if err != nil {
		panic(err)
	}
	return amount
}

func (amount Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(amount)
}

func (amount Amount) String() string {
	return decimal.Decimal(amount).String()
}

func (amount Amount) IsPositive() bool {
	return decimal.Decimal(amount).IsPositive()
}

func (amount Amount) Equal(other Amount) bool {
	return decimal.Decimal(amount).Equal(decimal.Decimal(other))
}

// MarshalJSON writes the amount as a JSON string holding exactly String(), so a decoder
// on the other side keeps every digit that was signed.
func (amount Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(amount.String())
}

func (amount *Amount) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	dec, err := decimal.NewFromString(str)
	if err != nil {
		return fmt.Errorf("not a valid amount: %s", p)
	}
	*amount = Amount(dec)
	return nil
}
