package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/h19term/internal/notify"
	"github.com/dshills/h19term/internal/terminal"
	"github.com/dshills/h19term/internal/xmodem"
)

// Bytes the command key can send.
const (
	ctrlA = 0x01
	del   = 0x7F
)

// helpText is shown by Ctrl-A Z when no help file is configured.
var helpText = []string{
	"",
	"  h19term command keys: press Ctrl-A, then",
	"",
	"    X        exit",
	"    Ctrl-A   send Ctrl-A to the host",
	"    B        send BREAK",
	"    D        send DEL",
	"    E        erase the screen",
	"    K        toggle alternate keypad",
	"    L        toggle the activity log",
	"    R        reset the terminal",
	"    H        toggle HEATH / ANSI mode",
	"    S        send the upload file (XMODEM)",
	"    C        next colour",
	"    Z        this help",
	"",
	"  Keys: F1-F5 function keys, F6-F8 blue, red, white,",
	"        F9 shift keypad, F10 keypad enter, F11 erase, F12 offline.",
	"        The cursor and editing keys are the numeric keypad.",
	"",
	"  Press any key to return.",
}

// command runs the key typed after Ctrl-A. Keys with no command close
// the prefix and are discarded.
func (a *Application) command(ev *tcell.EventKey) error {
	if isCtrlA(ev) {
		a.send([]byte{ctrlA})
		return nil
	}
	if ev.Key() != tcell.KeyRune {
		return nil
	}

	switch unicode.ToLower(ev.Rune()) {
	case 'x':
		return ErrQuit
	case 'b':
		if err := a.line.SendBreak(); err != nil {
			a.notice("break failed")
		}
	case 'd':
		a.send([]byte{del})
	case 'e':
		a.screen.ClearDisplay()
	case 'k':
		a.screen.ToggleMode(terminal.ModeKeypadAlternate)
	case 'l':
		a.toggleActivityLog()
	case 'r':
		a.reset()
	case 'h':
		a.screen.ToggleMode(terminal.ModeANSI)
	case 's':
		a.sendUpload()
	case 'c':
		a.nextColour()
	case 'z':
		a.showHelp()
	}
	return nil
}

// reset returns the terminal to power-up state and shows the intro.
func (a *Application) reset() {
	a.interp.Reset()
	a.showIntro()
	a.logger.Info("terminal reset")
}

func (a *Application) toggleActivityLog() {
	if a.line.ActivityLogging() {
		a.closeActivityLog()
		a.notifier.Publish(notify.TopicLogging, false, "app")
		return
	}

	path := a.cfg.Log.ActivityFile
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		a.fail("cannot open "+path, unavailable("open activity log", path, err))
		return
	}
	a.activity = f
	a.line.SetActivityLog(f)
	a.notifier.Publish(notify.TopicLogging, true, "app")
}

func (a *Application) closeActivityLog() {
	if a.activity == nil {
		return
	}
	a.line.SetActivityLog(nil)
	if err := a.activity.Close(); err != nil {
		a.logger.Warn("close activity log: %v", err)
	}
	a.activity = nil
}

func (a *Application) nextColour() {
	if a.settings == nil {
		return
	}
	if _, err := a.settings.NextColour(); err != nil {
		a.logger.Warn("change colour: %v", err)
	}
}

func (a *Application) showHelp() {
	path := a.cfg.Display.HelpFile
	if path == "" {
		a.page = helpText
		return
	}
	lines, err := readLines(path, terminal.Rows)
	if err != nil {
		a.fail("no help file", unavailable("open help", path, err))
		return
	}
	a.page = lines
}

// sendUpload sends the configured upload file. The transfer owns the
// line until it finishes; keys and inbound bytes wait.
func (a *Application) sendUpload() {
	path := a.cfg.Transfer.UploadFile
	if path == "" {
		a.fail("no upload file", ErrNoUploadFile)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		a.fail("cannot open "+path, unavailable("send", path, err))
		return
	}
	defer f.Close()

	a.notice("sending " + path)
	a.redraw()

	sender := xmodem.NewSender(a.line, xmodem.Options{
		Logger: a.logger.WithComponent("xmodem"),
		OnProgress: func(p xmodem.Progress) {
			a.notice(fmt.Sprintf("sent %d blocks", p.Blocks))
			a.redraw()
		},
	})
	res, err := sender.Send(a.ctx, f)
	a.metrics.RecordTransfer(err)
	a.metrics.RecordOutbound(int(res.Bytes))
	if err != nil {
		a.fail("transfer failed", err)
		return
	}
	a.logger.Info("sent %s: %d blocks, %d retries in %s", path, res.Blocks, res.Retries, res.Duration)
	a.notice(fmt.Sprintf("sent %d blocks", res.Blocks))
}

// readLines reads at most n lines of path.
func readLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < n {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
