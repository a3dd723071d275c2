package sound

import (
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	log "github.com/sirupsen/logrus"
)

// Player plays acknowledgement sounds on a background goroutine.  A newly
// requested sound cuts off the one that is playing.
type Player struct {
	soundsToPlay chan string
	closeOnce    sync.Once
}

func New() *Player {
	p := &Player{
		soundsToPlay: make(chan string),
	}
	go p.loop()
	return p
}

func (p *Player) loop() {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Sound player crashed")
		}
		for s := range p.soundsToPlay {
			log.WithField("sound", s).Debug("Unable to play")
		}
	}()
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/5)); err != nil {
		log.WithError(err).Warn("Failed to open speaker")
		return
	}

	var ctrl *beep.Ctrl
	var s beep.StreamSeekCloser
	for soundToPlay := range p.soundsToPlay {
		if ctrl != nil {
			speaker.Lock()
			ctrl.Paused = true
			ctrl.Streamer = nil
			speaker.Unlock()
			ctrl = nil
		}
		if s != nil {
			s.Close()
			s = nil
		}

		f, err := os.Open(soundToPlay)
		if err != nil {
			log.WithError(err).Warn("Failed to open sound")
			continue
		}
		s, _, err = wav.Decode(f)
		if err != nil {
			log.WithError(err).Warn("Failed to decode sound")
			_ = f.Close()
			continue
		}
		ctrl = &beep.Ctrl{Streamer: s}
		speaker.Play(ctrl)
	}
}

// Play queues path for playing; it gives up rather than block the caller
// if the player is busy.  An empty path does nothing.
func (p *Player) Play(path string) {
	if path == "" {
		return
	}
	defer func() {
		recover() // Don't die if the channel is already closed.
	}()
	select {
	case p.soundsToPlay <- path:
	case <-time.After(10 * time.Millisecond):
		log.WithField("sound", path).Debug("Timed out trying to play sound")
	}
}

func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.soundsToPlay) })
}
