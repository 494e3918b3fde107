package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/openweb3-io/cryptocapital/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TypesTestSuite struct {
	suite.Suite
}

func TestTypes(t *testing.T) {
	suite.Run(t, new(TypesTestSuite))
}

func (s *TypesTestSuite) TestNewAmountFromStr() {
	require := s.Require()
	amount, err := NewAmountFromStr("10.3")
	require.NoError(err)
	require.Equal("10.3", amount.String())
	require.True(amount.IsPositive())

	amount, err = NewAmountFromStr("0")
	require.NoError(err)
	require.Equal("0", amount.String())
	require.False(amount.IsPositive())

	_, err = NewAmountFromStr("")
	require.Error(err)

	_, err = NewAmountFromStr("ten")
	require.Error(err)
}

func (s *TypesTestSuite) TestAmountTrailingZeros() {
	require := s.Require()
	amount := MustAmount("100.50")
	require.Equal("100.5", amount.String())
	require.True(amount.Equal(MustAmount("100.5")))
	require.Equal(decimal.RequireFromString("100.5").String(), amount.Decimal().String())
}

func (s *TypesTestSuite) TestAmountJSON() {
	require := s.Require()
	bz, err := json.Marshal(map[string]any{"amount": MustAmount("12.25")})
	require.NoError(err)
	require.JSONEq(`{"amount": "12.25"}`, string(bz))

	bz, err = json.Marshal(MustAmount("1234567890.123456789012"))
	require.NoError(err)
	require.Equal(`"1234567890.123456789012"`, string(bz))

	var out struct {
		Amount Amount `json:"amount"`
	}
	require.NoError(json.Unmarshal([]byte(`{"amount":"7.5"}`), &out))
	require.Equal("7.5", out.Amount.String())
	require.NoError(json.Unmarshal([]byte(`{"amount":8}`), &out))
	require.Equal("8", out.Amount.String())
	require.Error(json.Unmarshal([]byte(`{"amount":"x"}`), &out))
}
