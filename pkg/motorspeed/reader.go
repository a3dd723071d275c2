package motorspeed

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// StdinDevice makes the Reader consume stdin instead of a serial port.
const StdinDevice = "-"

type Reader struct {
	Device   string
	BaudRate int

	open func() (io.ReadCloser, error)
}

func NewReader(device string, baudRate int) *Reader {
	r := &Reader{
		Device:   device,
		BaudRate: baudRate,
	}
	r.open = r.openDevice
	return r
}

func (r *Reader) openDevice() (io.ReadCloser, error) {
	if r.Device == StdinDevice {
		return io.NopCloser(os.Stdin), nil
	}
	mode := &serial.Mode{
		BaudRate: r.BaudRate,
	}
	port, err := serial.Open(r.Device, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", r.Device)
	}
	return port, nil
}

// Loop feeds every reading from the device to sink until ctx is done,
// reopening the device after failures.  Stdin is not reopened: Loop returns
// at EOF.
func (r *Reader) Loop(ctx context.Context, sink func(Reading)) {
	for ctx.Err() == nil {
		err := r.openAndRead(ctx, sink)
		if ctx.Err() != nil {
			return
		}
		if r.Device == StdinDevice && errors.Cause(err) == io.EOF {
			log.Info("End of input")
			return
		}
		log.WithFields(log.Fields{
			"device": r.Device,
			"error":  err,
		}).Warn("Motor speed loop stopped; will retry")
		time.Sleep(100 * time.Millisecond)
	}
}

func (r *Reader) openAndRead(ctx context.Context, sink func(Reading)) error {
	rc, err := r.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	// Unblock the scanner when we're asked to stop.
	stop := context.AfterFunc(ctx, func() { _ = rc.Close() })
	defer stop()

	return Scan(rc, sink)
}

// Scan reads lines from in until it fails, passing each parsed reading to
// sink.  Lines that don't parse are logged and dropped.  A clean end of input
// returns io.EOF.
func Scan(in io.Reader, sink func(Reading)) error {
	s := bufio.NewScanner(in)
	for s.Scan() {
		reading, err := ParseLine(s.Text())
		if err == ErrSkip {
			continue
		}
		if err != nil {
			log.WithError(err).Warn("Dropping bad motor speed line")
			continue
		}
		log.WithFields(log.Fields{
			"wheel": reading.Wheel,
			"stamp": reading.Stamp,
			"rpm":   reading.RPM,
		}).Debug("Motor speed")
		sink(reading)
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "failed to read motor speeds")
	}
	return io.EOF
}
