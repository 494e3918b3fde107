package builder

import (
	"github.com/openweb3-io/cryptocapital/builder/validation"
	"github.com/openweb3-io/cryptocapital/types"
)

type TransferArgs struct {
	accountNumber string
	beneficiary   string
	currency      string
	amount        types.Amount
}

var _ RequestArgs = &TransferArgs{}

// NewTransferArgs validates eagerly so that a bad transfer never reaches the signer.
func NewTransferArgs(accountNumber string, beneficiary string, currency string, amount types.Amount) (*TransferArgs, error) {
	args := &TransferArgs{
		accountNumber: accountNumber,
		beneficiary:   beneficiary,
		currency:      currency,
		amount:        amount,
	}
	if err := validation.ValidateParams(args.Operation(), args.Params()); err != nil {
		return nil, err
	}
	return args, nil
}

func (args *TransferArgs) GetAccountNumber() string { return args.accountNumber }
func (args *TransferArgs) GetBeneficiary() string   { return args.beneficiary }
func (args *TransferArgs) GetCurrency() string      { return args.currency }
func (args *TransferArgs) GetAmount() types.Amount  { return args.amount }

func (args *TransferArgs) Operation() types.Operation { return types.OperationTransfer }

func (args *TransferArgs) Params() types.Params {
	return types.Params{
		types.FieldAccountNumber: args.accountNumber,
		types.FieldBeneficiary:   args.beneficiary,
		types.FieldCurrency:      args.currency,
		types.FieldAmount:        args.amount,
	}
}
