/*
DESCRIPTION
  alsa.go provides playback of clips through an ALSA PCM playback device.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sound

import (
	"errors"
	"fmt"

	"github.com/ausocean/utils/logging"
	yalsa "github.com/yobert/alsa"
)

// alsaOutput opens the first playback device for each clip and closes it
// when the clip has played.
type alsaOutput struct {
	log logging.Logger
}

func (o *alsaOutput) play(c *Clip) error {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return err
	}
	defer yalsa.CloseCards(cards)

	var dev *yalsa.Device
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, d := range devices {
			if d.Type == yalsa.PCM && d.Play {
				dev = d
				break
			}
		}
		if dev != nil {
			break
		}
	}
	if dev == nil {
		return errors.New("no ALSA playback device found")
	}

	o.log.Debug(pkg+"opening ALSA device", "title", dev.Title)
	err = dev.Open()
	if err != nil {
		return err
	}
	defer dev.Close()

	err = o.negotiate(dev, c)
	if err != nil {
		return err
	}
	return dev.Write(c.Data, c.Frames())
}

// negotiate configures dev to play c without conversion.
func (o *alsaOutput) negotiate(dev *yalsa.Device, c *Clip) error {
	channels, err := dev.NegotiateChannels(c.Channels)
	if err != nil {
		return err
	}
	if channels != c.Channels {
		return fmt.Errorf("device cannot play %d channels", c.Channels)
	}

	rate, err := dev.NegotiateRate(c.Rate)
	if err != nil {
		return err
	}
	if rate != c.Rate {
		return fmt.Errorf("device cannot play at %dHz, offered %dHz", c.Rate, rate)
	}

	want := yalsa.S16_LE
	if c.BitDepth == 32 {
		want = yalsa.S32_LE
	}
	got, err := dev.NegotiateFormat(want)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("device cannot play %d bit samples", c.BitDepth)
	}

	// A 50ms period, as a power of two in bytes.
	bytesPerSecond := rate * channels * c.BitDepth / 8
	periodSize, err := dev.NegotiatePeriodSize(nearestPowerOfTwo(bytesPerSecond / 20))
	if err != nil {
		return err
	}
	_, err = dev.NegotiateBufferSize(periodSize * 4)
	if err != nil {
		return err
	}
	return dev.Prepare()
}

// nearestPowerOfTwo returns the power of two closest to n.
func nearestPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	lo := 1
	for lo*2 <= n {
		lo *= 2
	}
	if n-lo < 2*lo-n {
		return lo
	}
	return 2 * lo
}
