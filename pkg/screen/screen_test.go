package screen

import (
	"image"
	"image/color"
	"testing"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/publish"
)

func TestRGB565Packing(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, S, S))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})

	buf := RGB565(img)
	if len(buf) != S*S*2 {
		t.Fatalf("Expected %d bytes, got %d", S*S*2, len(buf))
	}
	check := func(x, y int, lo, hi byte) {
		t.Helper()
		i := (S-1-y)*2 + x*S*2
		if buf[i] != lo || buf[i+1] != hi {
			t.Errorf("Pixel (%d,%d): got %02x%02x, expected %02x%02x", x, y, buf[i+1], buf[i], hi, lo)
		}
	}
	check(0, 0, 0x00, 0xf8)
	check(1, 0, 0xe0, 0x07)
	check(0, 1, 0x1f, 0x00)
	check(5, 5, 0x00, 0x00)
}

func TestRenderDrawsSomething(t *testing.T) {
	for _, s := range []State{
		{},
		StateFrom(publish.CustomOdometry{Method: "rk"}),
		{Valid: true, X: 12.5, Y: -3, Heading: 7, Method: "euler"},
	} {
		img := Render(s)
		if img.Bounds() != image.Rect(0, 0, S, S) {
			t.Fatalf("Unexpected bounds %v", img.Bounds())
		}
		lit := 0
		for y := 0; y < S; y++ {
			for x := 0; x < S; x++ {
				if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
					lit++
				}
			}
		}
		if lit == 0 {
			t.Errorf("Nothing drawn for %+v", s)
		}
	}
}
