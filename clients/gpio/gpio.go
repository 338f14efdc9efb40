package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"requestdepot/core/log"
)

// boardToBCM maps physical header pins of the 40-pin Raspberry Pi header to
// their BCM GPIO numbers
var boardToBCM = map[int]int{
	3: 2, 5: 3, 7: 4, 8: 14, 10: 15, 11: 17, 12: 18, 13: 27,
	15: 22, 16: 23, 18: 24, 19: 10, 21: 9, 22: 25, 23: 11, 24: 8,
	26: 7, 27: 0, 28: 1, 29: 5, 31: 6, 32: 12, 33: 13, 35: 19,
	36: 16, 37: 26, 38: 20, 40: 21,
}

// BCMName returns the registry name of the GPIO line behind a physical header pin
func BCMName(boardPin int) (string, error) {
	bcm, ok := boardToBCM[boardPin]
	if !ok {
		return "", fmt.Errorf("physical pin %d is not a GPIO line", boardPin)
	}
	return fmt.Sprintf("GPIO%d", bcm), nil
}

// LightClient toggles a light wired to one output pin
type LightClient struct {
	boardPin  int
	activeLow bool

	hostInit   func() error
	resolvePin func(name string) gpio.PinIO
}

func NewLightClient(boardPin int, activeLow bool) *LightClient {
	return &LightClient{
		boardPin:  boardPin,
		activeLow: activeLow,
		hostInit: func() error {
			_, err := host.Init()
			return err
		},
		resolvePin: gpioreg.ByName,
	}
}

// SetLight initializes the host and the pin on every call; both steps are
// idempotent, so no handle is kept between calls.
func (c *LightClient) SetLight(on bool) error {
	log.Info("📋 Starting to set light on physical pin %d to on=%t", c.boardPin, on)

	if err := c.hostInit(); err != nil {
		log.Error("❌ Failed to initialize GPIO host: %v", err)
		return fmt.Errorf("failed to initialize GPIO host: %w", err)
	}

	name, err := BCMName(c.boardPin)
	if err != nil {
		return err
	}

	pin := c.resolvePin(name)
	if pin == nil {
		log.Error("❌ GPIO line %s is not available on this host", name)
		return fmt.Errorf("gpio line %s not found", name)
	}

	level := c.levelFor(on)
	if err := pin.Out(level); err != nil {
		log.Error("❌ Failed to drive %s %s: %v", name, level, err)
		return fmt.Errorf("failed to drive %s: %w", name, err)
	}

	log.Info("📋 Completed successfully - %s set to %s", name, level)
	return nil
}

func (c *LightClient) levelFor(on bool) gpio.Level {
	if c.activeLow {
		return gpio.Level(!on)
	}
	return gpio.Level(on)
}
