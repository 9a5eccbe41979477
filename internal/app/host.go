package app

// host carries the interpreter's outbound effects to the line and the
// bell.
type host struct {
	a *Application
}

func (h *host) Reply(p []byte) {
	h.a.send(p)
}

// SetBaud switches the live line. The line persists the new rate and the
// settings store publishes it to the status line.
func (h *host) SetBaud(rate int) {
	if err := h.a.line.SetBaud(rate); err != nil {
		h.a.logger.Warn("baud change to %d: %v", rate, err)
		return
	}
	h.a.logger.Info("baud rate set to %d by host", rate)
}

func (h *host) Bell() {
	h.a.ring()
}
