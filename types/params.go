package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Params are the operation-specific fields of a request.
type Params map[string]any

// Clone returns a shallow copy; a nil receiver yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Has reports whether name is set to a non-empty value.
func (p Params) Has(name string) bool {
	v, ok := p[name]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// Field returns the string form of a param as it participates in the signable string.
func (p Params) Field(name string) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %s", name)
	}
	return FieldString(v)
}

// FieldString coerces a scalar param value to its canonical string representation.
// Floats are written the way a JavaScript peer prints the same number after decoding
// the JSON, so the server rebuilds the signed text byte for byte.
func FieldString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		// the literal is sent unquoted, so it is read back as a number
		f, err := t.Float64()
		if err != nil {
			return "", fmt.Errorf("invalid number %q: %w", t, err)
		}
		return formatFloat(f, 64)
	case Amount:
		return t.String(), nil
	case decimal.Decimal:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.FormatInt(int64(t), 10), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case fmt.Stringer:
		return t.String(), nil
	}
	return "", fmt.Errorf("unsupported value of type %T", v)
}

// formatFloat renders f with the ECMAScript Number::toString rules: shortest round-trip
// digits, plain notation for 1e-6 <= |f| < 1e21 and d.ddde±x otherwise.
func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite number %v", f)
	}
	if f == 0 {
		return "0", nil
	}

	sci := strconv.FormatFloat(f, 'e', -1, bitSize)
	sign := ""
	if strings.HasPrefix(sci, "-") {
		sign = "-"
		sci = sci[1:]
	}
	mantissa, exponent, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return "", fmt.Errorf("format %v: %w", f, err)
	}

	k, n := len(digits), exp+1
	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		out = digits[:1]
		if k > 1 {
			out += "." + digits[1:]
		}
		e := n - 1
		if e < 0 {
			out += "e-" + strconv.Itoa(-e)
		} else {
			out += "e+" + strconv.Itoa(e)
		}
	}
	return sign + out, nil
}
