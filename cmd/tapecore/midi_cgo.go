//go:build cgo

// SPDX-License-Identifier: EPL-2.0

package main

import (
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func openMIDIDriver() (drivers.Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, err
	}
	return drv, nil
}
