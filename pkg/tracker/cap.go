package tracker

// Cap is a spending limit for one category. A budget created automatically
// when an expense is recorded starts unbounded and stays so until the user
// sets an explicit cap.
type Cap struct {
	Cents     int64
	Unbounded bool
}

// CappedAt returns a bounded cap of the given size.
func CappedAt(cents int64) Cap {
	return Cap{Cents: cents}
}

// Unlimited returns a cap that no amount of spending can exceed.
func Unlimited() Cap {
	return Cap{Unbounded: true}
}

// capFromColumn maps the nullable db column to a Cap, NULL meaning unbounded.
func capFromColumn(v *int64) Cap {
	if v == nil {
		return Unlimited()
	}
	return CappedAt(*v)
}

func (c Cap) column() *int64 {
	if c.Unbounded {
		return nil
	}
	v := c.Cents
	return &v
}

// Percent reports spending as a share of the cap. Unbounded caps always
// report zero.
func (c Cap) Percent(spentCents int64) float64 {
	if c.Unbounded || c.Cents == 0 {
		return 0
	}
	return float64(spentCents) / float64(c.Cents) * 100
}

// Exceeded reports whether spending is strictly over the cap.
func (c Cap) Exceeded(spentCents int64) bool {
	if c.Unbounded {
		return false
	}
	return spentCents > c.Cents
}

func (c Cap) String() string {
	if c.Unbounded {
		return "∞"
	}
	return FormatAmount(c.Cents)
}
