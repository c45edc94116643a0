//go:build linux

package buttons

import (
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

const evKey = 0x01

// EvdevDevice tracks key state from a gpio-keys style input device. Reads are
// non-blocking; pending events are drained on every query.
type EvdevDevice struct {
	path string
	fd   int

	mu   sync.Mutex
	down map[uint16]bool
	buf  []byte
}

func OpenEvdev(path string) (*EvdevDevice, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &EvdevDevice{path: path, fd: fd, down: make(map[uint16]bool), buf: make([]byte, 4096)}, nil
}

func (d *EvdevDevice) Close() error { return unix.Close(d.fd) }

// Key returns a Button bound to one key code of the device.
func (d *EvdevDevice) Key(name string, code uint16) Button {
	return evdevKey{dev: d, name: name, code: code}
}

func (d *EvdevDevice) drain() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for {
		n, err := unix.Read(d.fd, d.buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				return nil
			}
			return fmt.Errorf("read %s: %w", d.path, err)
		}
		if n <= 0 {
			return nil
		}
		applyKeyEvents(d.buf[:n], d.down)
	}
}

func (d *EvdevDevice) isDown(code uint16) (bool, error) {
	if err := d.drain(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.down[code], nil
}

type evdevKey struct {
	dev  *EvdevDevice
	name string
	code uint16
}

func (k evdevKey) Name() string           { return k.name }
func (k evdevKey) Pressed() (bool, error) { return k.dev.isDown(k.code) }

func eventSize() (tvSize, size int) {
	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize = binary.Size(unix.Timeval{})
	return tvSize, tvSize + 2 + 2 + 4
}

// applyKeyEvents folds a buffer of input_event records into the key state.
// Value 0 is release, 1 press, 2 autorepeat.
func applyKeyEvents(buf []byte, down map[uint16]bool) {
	tvSize, size := eventSize()
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		if typ != evKey {
			continue
		}
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		down[code] = value != 0
	}
}
