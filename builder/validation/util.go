package validation

import (
	"fmt"

	"github.com/openweb3-io/cryptocapital/types"
	"github.com/shopspring/decimal"
)

// ValidateParams checks, before anything is signed, that every field op signs is present
// and coercible to a string, and that a transfer amount is a positive decimal.
func ValidateParams(op types.Operation, params types.Params) error {
	if !op.Valid() {
		return types.WrapFieldErr(types.ErrValidation, "operation", fmt.Errorf("unknown operation %q", op))
	}
	if err := RequireFields(op, params); err != nil {
		return err
	}
	for _, field := range op.SignedFields() {
		if _, err := params.Field(field); err != nil {
			return types.WrapFieldErr(types.ErrValidation, field, err)
		}
	}
	if op == types.OperationTransfer {
		if err := ValidateAmount(params[types.FieldAmount]); err != nil {
			return types.WrapFieldErr(types.ErrValidation, types.FieldAmount, err)
		}
	}
	return nil
}

// RequireFields reports the first required field that is absent, nil or an empty string.
func RequireFields(op types.Operation, params types.Params) error {
	for _, field := range op.RequiredFields() {
		if !params.Has(field) {
			return types.WrapFieldErr(types.ErrValidation, field, fmt.Errorf("%s is required for %s", field, op))
		}
	}
	return nil
}

func ValidateAmount(v any) error {
	str, err := types.FieldString(v)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return fmt.Errorf("amount %q is not a decimal number", str)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", str)
	}
	return nil
}
