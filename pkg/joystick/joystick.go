package joystick

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Linux joystick API (js*) event types.  The init flag (0x80) is masked off.
type EventType uint8

const (
	EventTypeButton EventType = 1
	EventTypeAxis   EventType = 2
)

// Button numbers for a DualShock-style pad.
const (
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonSquare   = 3
	ButtonL1       = 4
	ButtonR1       = 5
	ButtonShare    = 8
	ButtonOptions  = 9
)

func (e EventType) String() string {
	switch e {
	case EventTypeAxis:
		return "axis"
	case EventTypeButton:
		return "button"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

type Joystick struct {
	device io.ReadCloser

	deviceEpoch    uint32
	wallclockEpoch time.Time
}

// On-the-wire layout of struct js_event.
type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type Event struct {
	Time   time.Time
	Value  int16
	Type   EventType
	Number uint8
}

func (e *Event) String() string {
	return fmt.Sprintf("%v(%v)=%v", e.Type, e.Number, e.Value)
}

// Pressed reports whether e is button n going down.
func (e *Event) Pressed(n uint8) bool {
	return e.Type == EventTypeButton && e.Number == n && e.Value == 1
}

func Open(device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open joystick %s", device)
	}
	return New(f), nil
}

func New(device io.ReadCloser) *Joystick {
	return &Joystick{device: device}
}

func (j *Joystick) ReadEvent() (*Event, error) {
	var raw rawEvent
	if err := binary.Read(j.device, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}

	// Device times are milliseconds from an arbitrary start; anchor them to
	// the wall clock at the first event.
	if j.deviceEpoch == 0 {
		j.deviceEpoch = raw.Time
		j.wallclockEpoch = time.Now()
	}

	return &Event{
		Time:   j.wallclockEpoch.Add(time.Duration(raw.Time-j.deviceEpoch) * time.Millisecond),
		Value:  raw.Value,
		Type:   EventType(raw.Type & 0x7f),
		Number: raw.Number,
	}, nil
}

// Loop passes events to handle until reading fails or ctx is done.
func (j *Joystick) Loop(ctx context.Context, handle func(*Event)) error {
	stop := context.AfterFunc(ctx, func() { _ = j.device.Close() })
	defer stop()
	for ctx.Err() == nil {
		event, err := j.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "failed to read from joystick")
		}
		handle(event)
	}
	return ctx.Err()
}

func (j *Joystick) Close() error {
	return j.device.Close()
}
