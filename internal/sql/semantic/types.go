package semantic

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/cabewaldrop/minisql/internal/sql/parser"
)

// InferType classifies a raw literal lexeme.
//
// A quoted value is TEXT. Otherwise the lexeme is tried as an integer
// (of any size), then as a floating-point number; anything else is UNKNOWN.
func InferType(raw string) parser.DataType {
	if len(raw) >= 2 && strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") {
		return parser.TypeText
	}
	if _, ok := new(big.Int).SetString(raw, 10); ok {
		return parser.TypeInt
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return parser.TypeFloat
	}
	return parser.TypeUnknown
}

// Compatible reports whether a value of type value may be stored in a
// column declared as target. Integers widen into FLOAT columns; nothing
// else converts.
func Compatible(target, value parser.DataType) bool {
	if target == value {
		return true
	}
	return target == parser.TypeFloat && value == parser.TypeInt
}
