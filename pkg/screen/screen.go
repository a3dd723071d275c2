package screen

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/angle"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/publish"
)

const (
	S = 128

	DefaultDevice = "/dev/fb1"
	refresh       = 500 * time.Millisecond
)

// State is what gets drawn.
type State struct {
	Valid   bool
	X, Y    float64
	Heading float64
	Linear  float64
	Angular float64
	Method  string
}

func StateFrom(c publish.CustomOdometry) State {
	return State{
		Valid:   true,
		X:       c.Odom.Pose.Position.X,
		Y:       c.Odom.Pose.Position.Y,
		Heading: c.Odom.Pose.Heading,
		Linear:  c.Odom.Twist.Linear.X,
		Angular: c.Odom.Twist.Angular.Z,
		Method:  c.Method,
	}
}

// LoopUpdatingScreen redraws the framebuffer at device with the latest
// odometry from msgs until ctx is done or msgs is closed.  It blanks the
// screen on the way out.
func LoopUpdatingScreen(ctx context.Context, device string, msgs <-chan publish.Message) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		log.WithError(err).Info("Failed to open screen, ignoring")
		// Keep draining so the broker doesn't count us as slow.
		for range msgs {
		}
		return
	}
	defer f.Close()

	var state State
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			blank(f)
			return
		case m, ok := <-msgs:
			if !ok {
				blank(f)
				return
			}
			if c, ok := m.Data.(publish.CustomOdometry); ok {
				state = StateFrom(c)
			}
		case <-ticker.C:
			if err := write(f, RGB565(Render(state))); err != nil {
				log.WithError(err).Error("Screen failure")
				for range msgs {
				}
				return
			}
		}
	}
}

func blank(f *os.File) {
	var buf [S * S * 2]byte
	_ = write(f, buf[:])
}

func write(f *os.File, buf []byte) error {
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	for i := 0; i < S; i++ {
		if _, err := f.Write(buf[i*S*2 : (i+1)*S*2]); err != nil {
			return err
		}
		time.Sleep(10 * time.Microsecond)
	}
	return nil
}

// Render draws the pose readout and a compass arrow for the heading.
func Render(s State) image.Image {
	dc := gg.NewContext(S, S)
	dc.SetRGBA(1, 0.9, 0, 1)

	if !s.Valid {
		dc.DrawString("NO ODOM", 40, S/2)
		return dc.Image()
	}

	dc.DrawString(fmt.Sprintf("x %7.2fm", s.X), 4, 14)
	dc.DrawString(fmt.Sprintf("y %7.2fm", s.Y), 4, 28)
	dc.DrawString(fmt.Sprintf("th %6.1f", angle.Degrees(angle.Wrap(s.Heading))), 4, 42)
	dc.DrawString(fmt.Sprintf("v %5.2f w %5.2f", s.Linear, s.Angular), 4, 120)
	dc.DrawString(s.Method, 96, 14)

	// Heading arrow, +x to the right and +y up.
	const cx, cy, r = S / 2, 82, 26
	dc.DrawCircle(cx, cy, r)
	dc.SetLineWidth(1)
	dc.Stroke()
	dc.Push()
	dc.RotateAbout(-angle.Wrap(s.Heading), cx, cy)
	dc.DrawLine(cx-r+6, cy, cx+r-6, cy)
	dc.SetLineWidth(3)
	dc.Stroke()
	dc.Translate(cx+r-6, cy)
	dc.DrawRegularPolygon(3, 0, 0, 7, 0)
	dc.Fill()
	dc.Pop()

	return dc.Image()
}

// RGB565 packs img into the panel's framebuffer layout: 16 bits per pixel,
// little-endian, with the panel mounted rotated a quarter turn.
func RGB565(img image.Image) []byte {
	buf := make([]byte, S*S*2)
	for y := 0; y < S; y++ {
		for x := 0; x < S; x++ {
			r, g, b, _ := img.At(x, y).RGBA() // 16-bit pre-multiplied

			rb := byte(r >> (16 - 5))
			gb := byte(g >> (16 - 6)) // Green has 6 bits
			bb := byte(b >> (16 - 5))

			buf[(S-1-y)*2+x*S*2+1] = (rb << 3) | (gb >> 3)
			buf[(S-1-y)*2+x*S*2] = bb | (gb << 5)
		}
	}
	return buf
}
