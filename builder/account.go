package builder

import (
	"github.com/openweb3-io/cryptocapital/builder/validation"
	"github.com/openweb3-io/cryptocapital/types"
)

// StatementArgs requests the transaction history of an account.
type StatementArgs struct {
	accountNumber string
}

var _ RequestArgs = &StatementArgs{}

func NewStatementArgs(accountNumber string) (*StatementArgs, error) {
	args := &StatementArgs{accountNumber: accountNumber}
	if err := validation.ValidateParams(args.Operation(), args.Params()); err != nil {
		return nil, err
	}
	return args, nil
}

func (args *StatementArgs) GetAccountNumber() string   { return args.accountNumber }
func (args *StatementArgs) Operation() types.Operation { return types.OperationStatement }
func (args *StatementArgs) Params() types.Params {
	return types.Params{types.FieldAccountNumber: args.accountNumber}
}

// AccountArgs requests account details and balances.
type AccountArgs struct {
	accountNumber string
}

var _ RequestArgs = &AccountArgs{}

func NewAccountArgs(accountNumber string) (*AccountArgs, error) {
	args := &AccountArgs{accountNumber: accountNumber}
	if err := validation.ValidateParams(args.Operation(), args.Params()); err != nil {
		return nil, err
	}
	return args, nil
}

func (args *AccountArgs) GetAccountNumber() string   { return args.accountNumber }
func (args *AccountArgs) Operation() types.Operation { return types.OperationAccount }
func (args *AccountArgs) Params() types.Params {
	return types.Params{types.FieldAccountNumber: args.accountNumber}
}
