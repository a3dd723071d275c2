package motorspeed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Wheel uint8

const (
	FrontLeft Wheel = iota
	FrontRight
	RearLeft
	RearRight

	NumWheels = 4
)

var wheelNames = [NumWheels]string{"fl", "fr", "rl", "rr"}

func (w Wheel) String() string {
	if int(w) < len(wheelNames) {
		return wheelNames[w]
	}
	return fmt.Sprintf("unknown(%d)", uint8(w))
}

func ParseWheel(s string) (Wheel, error) {
	for i, n := range wheelNames {
		if s == n {
			return Wheel(i), nil
		}
	}
	return 0, errors.Errorf("unknown wheel %q", s)
}

// Reading is one speed report from one wheel's motor controller.
type Reading struct {
	Wheel Wheel
	Stamp time.Time
	RPM   float64
}

var ErrSkip = errors.New("comment or blank line")

// ParseLine parses "<wheel> <seconds> <rpm>", e.g. "fl 1618403000.120000 -1523.5".
// Blank lines and lines starting with '#' return ErrSkip.
func ParseLine(line string) (Reading, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Reading{}, ErrSkip
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Reading{}, errors.Errorf("expected 3 fields, got %d in %q", len(fields), line)
	}
	wheel, err := ParseWheel(fields[0])
	if err != nil {
		return Reading{}, err
	}
	stamp, err := ParseStamp(fields[1])
	if err != nil {
		return Reading{}, err
	}
	rpm, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Reading{}, errors.Wrapf(err, "bad rpm in %q", line)
	}
	return Reading{Wheel: wheel, Stamp: stamp, RPM: rpm}, nil
}

// ParseStamp parses decimal seconds since the epoch.  It splits on the point
// rather than going through a float so that equal strings always give equal
// times down to the nanosecond.
func ParseStamp(s string) (time.Time, error) {
	secPart, fracPart, _ := strings.Cut(s, ".")
	if strings.HasPrefix(secPart, "-") || secPart == "" {
		return time.Time{}, errors.Errorf("bad stamp %q", s)
	}
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "bad stamp %q", s)
	}
	var nsec int64
	if fracPart != "" {
		if len(fracPart) > 9 {
			fracPart = fracPart[:9]
		}
		for _, c := range fracPart {
			if c < '0' || c > '9' {
				return time.Time{}, errors.Errorf("bad stamp %q", s)
			}
		}
		nsec, _ = strconv.ParseInt(fracPart+strings.Repeat("0", 9-len(fracPart)), 10, 64)
	}
	return time.Unix(sec, nsec), nil
}

// FormatLine is the inverse of ParseLine.
func FormatLine(r Reading) string {
	return fmt.Sprintf("%s %d.%09d %.6f", r.Wheel, r.Stamp.Unix(), r.Stamp.Nanosecond(), r.RPM)
}
