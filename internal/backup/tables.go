package backup

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type kind int

const (
	kindInt kind = iota
	kindDecimal
	kindText
	kindBytes
)

type column struct {
	name string
	kind kind
}

type table struct {
	name    string
	columns []column
}

// Tables lists the exportable tables in restore order (parents first).
var Tables = []string{"users", "transactions", "budget"}

var tables = map[string]table{
	"users": {name: "users", columns: []column{
		{"id", kindInt}, {"username", kindText}, {"password_hash", kindBytes},
	}},
	"transactions": {name: "transactions", columns: []column{
		{"id", kindInt}, {"user_id", kindInt}, {"amount", kindDecimal}, {"type", kindText},
		{"category", kindText}, {"month", kindInt}, {"year", kindInt},
	}},
	"budget": {name: "budget", columns: []column{
		{"id", kindInt}, {"user_id", kindInt}, {"amount", kindDecimal}, {"category", kindText},
	}},
}

func lookupTable(name string) (table, error) {
	t, ok := tables[name]
	if !ok {
		return table{}, fmt.Errorf("unknown table %q (allowed: users, transactions, budget)", name)
	}
	return t, nil
}

func (t table) column(name string) (column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

// dest returns a scan target suited to the column kind.
func (c column) dest() any {
	switch c.kind {
	case kindInt:
		return new(int64)
	case kindDecimal:
		return new(decimal.Decimal)
	case kindBytes:
		return new([]byte)
	}
	return new(string)
}

// format renders a scanned value as CSV text. Bytes are hex encoded.
func (c column) format(v any) string {
	switch p := v.(type) {
	case *int64:
		return strconv.FormatInt(*p, 10)
	case *decimal.Decimal:
		return p.String()
	case *[]byte:
		return hex.EncodeToString(*p)
	case *string:
		return *p
	}
	return fmt.Sprint(v)
}

// parse converts CSV text back into a value for the column.
func (c column) parse(s string) (any, error) {
	switch c.kind {
	case kindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		return n, nil
	case kindDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		return d, nil
	case kindBytes:
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		return b, nil
	}
	return s, nil
}
