package libdiff

import (
	"math/big"

	"github.com/signadot/go-sync/syncjson"
)

// sameNumber compares number literals by value, so 1.0 equals 1 and 1e2
// equals 100.
func sameNumber(from, to *syncjson.Value) bool {
	if from.Text == to.Text {
		return true
	}
	a, ok := new(big.Float).SetPrec(256).SetString(from.Text)
	if !ok {
		return false
	}
	b, ok := new(big.Float).SetPrec(256).SetString(to.Text)
	if !ok {
		return false
	}
	return a.Cmp(b) == 0
}

// numberKey is the text of a number literal normalized by value, for
// matching array items the way sameNumber compares them.
func numberKey(text string) string {
	f, ok := new(big.Float).SetPrec(256).SetString(text)
	if !ok {
		return text
	}
	if f.Sign() == 0 {
		return "0"
	}
	return f.Text('g', -1)
}
