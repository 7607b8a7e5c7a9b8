package mpd

// TagMask is a per-session set of enabled tag kinds, controlled by
// `tagtypes enable/disable/clear/all`. The zero value is empty; use
// NewTagMaskAll for the initial all-enabled state every session starts
// with.
type TagMask uint32

// NewTagMaskAll returns a mask with every known tag kind enabled.
func NewTagMaskAll() TagMask {
	var m TagMask
	for _, k := range AllKinds() {
		m = m.Enable(k)
	}
	return m
}

func (m TagMask) Has(k Kind) bool {
	return m&(1<<uint(k)) != 0
}

func (m TagMask) Enable(k Kind) TagMask {
	return m | (1 << uint(k))
}

func (m TagMask) Disable(k Kind) TagMask {
	return m &^ (1 << uint(k))
}

// Clear returns the empty mask.
func (m TagMask) Clear() TagMask {
	return 0
}

// Enabled lists every kind currently enabled, in declaration order.
func (m TagMask) Enabled() []Kind {
	var out []Kind
	for _, k := range AllKinds() {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
