package model

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in cents. Rooms.ticket_price is a DECIMAL column, so
// Scan accepts the driver's textual form as well as numeric values.
type Money int64

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
	case int64:
		*m = Money(v * 100)
	case float64:
		*m = Money(math.Round(v * 100))
	case []byte:
		return m.parse(string(v))
	case string:
		return m.parse(v)
	default:
		return fmt.Errorf("money: unsupported source type %T", src)
	}
	return nil
}

func (m *Money) parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(math.Round(f * 100))
	return nil
}

// Times returns the amount multiplied by n.
func (m Money) Times(n int) Money { return m * Money(n) }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
