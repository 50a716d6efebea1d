package store

import "strconv"

// ChatKey returns the canonical key for a two-party message thread,
// independent of argument order: "min_max".
func ChatKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return strconv.Itoa(a) + "_" + strconv.Itoa(b)
}
