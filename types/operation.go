package types

import (
	"fmt"
	"strings"
)

type Operation string

const (
	OperationAuth      Operation = "AUTH"
	OperationTransfer  Operation = "TRANSFER"
	OperationStatement Operation = "STATEMENT"
	OperationAccount   Operation = "ACCOUNT"
)

var OperationList = []Operation{
	OperationAuth,
	OperationTransfer,
	OperationStatement,
	OperationAccount,
}

// Parameter names used on the wire.
const (
	FieldAccountNumber = "accountNumber"
	FieldBeneficiary   = "beneficiary"
	FieldCurrency      = "currency"
	FieldAmount        = "amount"
)

// signedFields lists, in concatenation order, the params covered by the signature.
// Every signed field is also required.
var signedFields = map[Operation][]string{
	OperationAuth:      {},
	OperationTransfer:  {FieldAccountNumber, FieldBeneficiary, FieldCurrency, FieldAmount},
	OperationStatement: {FieldAccountNumber},
	OperationAccount:   {FieldAccountNumber},
}

// ParseOperation accepts an operation name in any case.
func ParseOperation(name string) (Operation, error) {
	for _, op := range OperationList {
		if strings.EqualFold(string(op), name) {
			return op, nil
		}
	}
	return "", fmt.Errorf("invalid operation: %s\noptions: %v", name, OperationList)
}

func (op Operation) Valid() bool {
	_, ok := signedFields[op]
	return ok
}

// SignedFields returns a copy of the ordered field list for op.
func (op Operation) SignedFields() []string {
	fields := signedFields[op]
	return append([]string(nil), fields...)
}

// RequiredFields is identical to SignedFields: a field that is signed must be present.
func (op Operation) RequiredFields() []string {
	return op.SignedFields()
}

// EventName is the channel message name the operation is emitted under.
func (op Operation) EventName() string {
	return strings.ToLower(string(op))
}

func (op Operation) String() string {
	return string(op)
}
