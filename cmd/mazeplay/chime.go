package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// chime plays short tones through the default audio device.
type chime struct{}

func newChime() (*chime, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &chime{}, nil
}

// arrived plays a rising two-note tone.
func (c *chime) arrived() {
	if c == nil {
		return
	}

	low, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}
	high, err := generators.SineTone(sampleRate, 990)
	if err != nil {
		return
	}

	note := sampleRate.N(90 * time.Millisecond)
	speaker.Play(beep.Seq(beep.Take(note, low), beep.Take(note, high)))
}

// blocked plays a short low tone.
func (c *chime) blocked() {
	if c == nil {
		return
	}

	tone, err := generators.SineTone(sampleRate, 140)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(40*time.Millisecond), tone))
}
