package serial

// EchoResult classifies the host's answer to a backspace.
type EchoResult int

const (
	// EchoNone means nothing came back.
	EchoNone EchoResult = iota

	// EchoErase means the full BS SP BS echo was seen; erase one cell.
	EchoErase

	// EchoPartial means the echo started with BS and then deviated;
	// move the cursor left one column.
	EchoPartial

	// EchoForeign means the first byte back was not BS.
	EchoForeign
)

// String returns the result name.
func (r EchoResult) String() string {
	switch r {
	case EchoNone:
		return "none"
	case EchoErase:
		return "erase"
	case EchoPartial:
		return "partial"
	case EchoForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Echo is the outcome of ProbeBackspace. When Stray is set, Byte is an
// inbound byte that was not part of the echo and must still be processed.
type Echo struct {
	Result EchoResult
	Byte   byte
	Stray  bool
}

// ProbeBackspace sends one BS and reads up to three bytes, each bounded by
// EchoTimeout, expecting the host to echo "BS SP BS".
func (t *Transport) ProbeBackspace() Echo {
	if err := t.WriteByte(bs); err != nil {
		return Echo{Result: EchoNone}
	}

	c, ok := t.Read(EchoTimeout)
	if !ok {
		return Echo{Result: EchoNone}
	}
	if c != bs {
		return Echo{Result: EchoForeign, Byte: c, Stray: true}
	}

	for _, want := range []byte{space, bs} {
		c, ok = t.Read(EchoTimeout)
		if !ok {
			return Echo{Result: EchoPartial}
		}
		if c != want {
			return Echo{Result: EchoPartial, Byte: c, Stray: true}
		}
	}
	return Echo{Result: EchoErase}
}
