//go:build !linux

package system

import "github.com/rook-computer/badge/internal/logging"

func EnterGraphics(l logging.Logger) (restore func()) {
	l.Infof("tty", "console mode switching needs linux")
	return func() {}
}
