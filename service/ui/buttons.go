// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package ui

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOButtons reads three active-low lines (idle high via pull-up,
// driven low while held) on a single gpiochip.
type GPIOButtons struct {
	lines  []*gpiocdev.Line
	events chan Button
}

// NewGPIOButtons requests the up/down/select lines on chip and starts
// watching them for presses. debounce is passed straight through to the
// kernel's line debounce filter.
func NewGPIOButtons(chip string, upOffset, downOffset, selectOffset int, debounce time.Duration) (*GPIOButtons, error) {
	b := &GPIOButtons{events: make(chan Button, 8)}

	offsets := []struct {
		offset int
		button Button
	}{
		{upOffset, ButtonUp},
		{downOffset, ButtonDown},
		{selectOffset, ButtonSelect},
	}

	for _, o := range offsets {
		button := o.button
		armed := true
		handler := func(evt gpiocdev.LineEvent) {
			switch evt.Type {
			case gpiocdev.LineEventFallingEdge:
				if armed {
					armed = false
					select {
					case b.events <- button:
					default:
					}
				}
			case gpiocdev.LineEventRisingEdge:
				armed = true
			}
		}

		line, err := gpiocdev.RequestLine(chip, o.offset,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithBothEdges,
			gpiocdev.WithDebounce(debounce),
			gpiocdev.WithEventHandler(handler),
			gpiocdev.WithConsumer("bt2usb-ui"),
		)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("ui: request %s line %d: %w", button, o.offset, err)
		}
		b.lines = append(b.lines, line)
	}

	return b, nil
}

// Events returns the channel button presses are delivered on.
func (b *GPIOButtons) Events() <-chan Button { return b.events }

// Close releases every requested line.
func (b *GPIOButtons) Close() error {
	var firstErr error
	for _, line := range b.lines {
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
