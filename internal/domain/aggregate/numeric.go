package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Bounds for a usable amount. Anything outside is treated as malformed so a
// hostile exponent cannot force huge rescaling work when amounts are summed.
const (
	maxNumericLength   = 64
	maxNumericDigits   = 40
	maxNumericExponent = 30
)

// Numeric holds a monetary or count field that the store backend may send
// either as a JSON number or as a numeric string. Values that cannot be
// read as a finite number are kept as invalid instead of failing the decode.
type Numeric struct {
	value decimal.Decimal
	valid bool
}

// NumericFromInt returns a valid Numeric holding v
func NumericFromInt(v int64) Numeric {
	return Numeric{value: decimal.NewFromInt(v), valid: true}
}

// NumericFromFloat returns a Numeric holding f. NaN and infinities are invalid.
func NumericFromFloat(f float64) Numeric {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Numeric{}
	}
	return bounded(decimal.NewFromFloat(f))
}

// ParseNumeric reads s as a decimal number. Blank, non-numeric or
// out-of-range input yields an invalid Numeric.
func ParseNumeric(s string) Numeric {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNumericLength {
		return Numeric{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Numeric{}
	}
	return bounded(d)
}

func bounded(d decimal.Decimal) Numeric {
	exp := d.Exponent()
	if exp > maxNumericExponent || exp < -maxNumericExponent || d.NumDigits() > maxNumericDigits {
		return Numeric{}
	}
	return Numeric{value: d, valid: true}
}

// Decimal returns the value and whether it is usable
func (n Numeric) Decimal() (decimal.Decimal, bool) {
	return n.value, n.valid
}

// OrZero returns the value, or zero when the field was absent or malformed
func (n Numeric) OrZero() decimal.Decimal {
	if !n.valid {
		return decimal.Zero
	}
	return n.value
}

// IsValid reports whether the field held a finite number
func (n Numeric) IsValid() bool {
	return n.valid
}

func (n Numeric) String() string {
	if !n.valid {
		return "NaN"
	}
	return n.value.String()
}

// UnmarshalJSON accepts numbers and numeric strings. Any other JSON value
// decodes to an invalid Numeric without returning an error.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	*n = Numeric{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		*n = ParseNumeric(s)
	case c == '-' || (c >= '0' && c <= '9'):
		*n = ParseNumeric(string(trimmed))
	}

	return nil
}

// MarshalJSON writes the exact decimal as a JSON number, or null when invalid
func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return []byte(n.value.String()), nil
}

// UnmarshalBSONValue reads the numeric BSON types plus strings. Other types
// decode to an invalid Numeric.
func (n *Numeric) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*n = Numeric{}

	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		if f, ok := raw.DoubleOK(); ok {
			*n = NumericFromFloat(f)
		}
	case bsontype.Int32:
		if i, ok := raw.Int32OK(); ok {
			*n = NumericFromInt(int64(i))
		}
	case bsontype.Int64:
		if i, ok := raw.Int64OK(); ok {
			*n = NumericFromInt(i)
		}
	case bsontype.Decimal128:
		if d, ok := raw.Decimal128OK(); ok {
			*n = ParseNumeric(d.String())
		}
	case bsontype.String:
		if s, ok := raw.StringValueOK(); ok {
			*n = ParseNumeric(s)
		}
	}

	return nil
}

// GoString keeps test failure output readable
func (n Numeric) GoString() string {
	return fmt.Sprintf("aggregate.Numeric(%s)", n.String())
}
