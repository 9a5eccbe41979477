package serial

// BaudRates is the fixed, ascending table of selectable line rates. The two
// fastest entries are the Super-19 additions.
var BaudRates = []int{110, 150, 300, 600, 1200, 1800, 2000, 2400, 3600, 4800, 7200, 9600, 19200, 38400}

// DefaultBaud is the rate used when no setting exists.
const DefaultBaud = 9600

// BaudAt returns the rate at a zero-based table index.
func BaudAt(index int) (int, bool) {
	if index < 0 || index >= len(BaudRates) {
		return 0, false
	}
	return BaudRates[index], true
}

// BaudIndex returns the table index of rate, or -1.
func BaudIndex(rate int) int {
	for i, r := range BaudRates {
		if r == rate {
			return i
		}
	}
	return -1
}

// ValidBaud reports whether rate is in the table.
func ValidBaud(rate int) bool {
	return BaudIndex(rate) >= 0
}
