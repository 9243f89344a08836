package core

// ToMonthly converts an amount recurring at the given frequency to its
// monthly equivalent. The conversion table is fixed and not
// user-configurable. An unrecognized frequency is treated as already
// monthly rather than raising an error; legacy exports carry empty
// frequency strings and a permissive default keeps them summing.
func ToMonthly(amount float64, f Frequency) float64 {
	switch f {
	case Weekly:
		return amount * 52 / 12
	case Fortnightly:
		return amount * 26 / 12
	case Monthly:
		return amount
	case Quarterly:
		return amount / 3
	case Yearly:
		return amount / 12
	default:
		return amount
	}
}
