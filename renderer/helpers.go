package renderer

import (
	"bytes"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it
// is discarded. It reports whether the block was printed.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) bool {
	var bw bytes.Buffer
	if !block(&bw) {
		return false
	}
	_, err := bw.WriteTo(w)
	return err == nil
}

// percent formats an annual rate given in percent: "4.5%".
func percent(rate decimal.Decimal) string { return rate.String() + "%" }

// days formats a delay counted in days.
func days(n int) string {
	switch n {
	case 0:
		return "today"
	case 1:
		return "1 day"
	default:
		return strconv.Itoa(n) + " days"
	}
}
