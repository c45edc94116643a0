//go:build linux

package hw

import "github.com/rook-computer/badge/internal/buttons"

// BTN_0 and BTN_1 from linux/input-event-codes.h, as gpio-keys reports them.
const (
	btn0 = 0x100
	btn1 = 0x101
)

func openEvdevButtons(path string) ([]buttons.Button, error) {
	dev, err := buttons.OpenEvdev(path)
	if err != nil {
		return nil, err
	}
	return []buttons.Button{dev.Key("button1", btn0), dev.Key("button2", btn1)}, nil
}
