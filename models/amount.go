package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a currency amount stored as integer cents. JSON and API clients
// see plain decimal numbers; arithmetic inside the service is exact.
// Values with more than two decimal places are rounded half away from zero.
type Amount int64

func (a Amount) MarshalJSON() ([]byte, error) {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return []byte(fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAmount converts a decimal string like "12.345" into cents (1235 here,
// rounded half away from zero on the third decimal).
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	// Leave room for the cents and the rounding carry.
	if units > (math.MaxInt64-100)/100 {
		return 0, fmt.Errorf("amount %q out of range", s)
	}

	cents := units * 100
	if fracPart != "" {
		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
		}
		// Pad to at least three digits so the rounding digit is explicit.
		padded := fracPart + "000"
		cents += int64(padded[0]-'0')*10 + int64(padded[1]-'0')
		if padded[2] >= '5' {
			cents++
		}
	}

	if neg {
		cents = -cents
	}
	return Amount(cents), nil
}

// Float64 is for display math only (percentages); never use it to sum money.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	b, _ := a.MarshalJSON()
	return string(b)
}

func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*a = Amount(v)
		return nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		*a = Amount(n)
		return nil
	case nil:
		*a = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
}

// AverageAmount divides a total by count, rounding half away from zero.
// A zero count yields zero, never a division error.
func AverageAmount(total Amount, count int) Amount {
	if count == 0 {
		return 0
	}
	t := int64(total)
	n := int64(count)
	q := t / n
	r := t % n
	if r < 0 {
		r = -r
	}
	if 2*r >= n {
		if t < 0 {
			q--
		} else {
			q++
		}
	}
	return Amount(q)
}
