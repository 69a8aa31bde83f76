package barometer

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the fixed I²C address of the BMP180.
	DefaultAddress uint16 = 0x77

	// ChipID is the expected content of regChipID.
	ChipID byte = 0x55

	regChipID      = 0xD0
	regCalibration = 0xAA

	// Control register
	regCtrlMeas = 0xF4
	tempCmd     = 0x2E
	pressCmd    = 0x34

	// Data registers, MSB LSB XLSB
	regData = 0xF6
)

var (
	// ErrUnexpectedChipID is advisory: the device answered but does not
	// identify itself as a BMP180.
	ErrUnexpectedChipID = errors.New("bmp180: unexpected chip ID")

	// ErrWrongMeasurement is returned when reading a result that does not
	// match the last measurement started.
	ErrWrongMeasurement = errors.New("bmp180: result does not match started measurement")
)

// BusError wraps a failed bus transaction. It is never retried.
type BusError struct {
	Op  string
	Reg byte
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bmp180: %s register %#02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// Opts configures a Dev.
type Opts struct {
	// Oversampling is used for every pressure conversion.
	Oversampling Oversampling
	// Sleep waits for a conversion to finish. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Now stamps Readings. Defaults to time.Now.
	Now func() time.Time
}

// Dev is a BMP180 on an I²C bus.
//
// A Dev is not safe for concurrent use.
type Dev struct {
	dev   i2c.Dev
	cal   Calibration
	oss   Oversampling
	sleep func(time.Duration)
	now   func() time.Time

	started bool
	state   Measurement
}

var _ conn.Resource = (*Dev)(nil)

// NewI2C reads the calibration block of the BMP180 at addr.
//
// The chip ID is not checked here; see ChipID.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("bmp180: opts is required")
	}
	if err := opts.Oversampling.valid(); err != nil {
		return nil, err
	}

	d := &Dev{
		dev:   i2c.Dev{Bus: b, Addr: addr},
		oss:   opts.Oversampling,
		sleep: opts.Sleep,
		now:   opts.Now,
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	if d.now == nil {
		d.now = time.Now
	}

	buf := make([]byte, calibrationSize)
	if err := d.readReg(regCalibration, buf); err != nil {
		return nil, err
	}
	cal, err := LoadCalibration(buf)
	if err != nil {
		return nil, err
	}
	d.cal = cal
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("BMP180{%s}", &d.dev)
}

// Halt is a no-op; a conversion can not be aborted.
func (d *Dev) Halt() error {
	return nil
}

// Calibration returns the coefficients read by NewI2C.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

// Oversampling returns the setting pressure conversions run with.
func (d *Dev) Oversampling() Oversampling {
	return d.oss
}

// ChipID reads the chip ID register.
//
// On a mismatch the ID is returned together with an error wrapping
// ErrUnexpectedChipID so the caller can decide whether to carry on.
func (d *Dev) ChipID() (byte, error) {
	var id [1]byte
	if err := d.readReg(regChipID, id[:]); err != nil {
		return 0, err
	}
	if id[0] != ChipID {
		return id[0], fmt.Errorf("%w: %#02x, want %#02x", ErrUnexpectedChipID, id[0], ChipID)
	}
	return id[0], nil
}

// StartMeasurement starts a conversion. The result is valid once
// ConversionDelay has elapsed.
func (d *Dev) StartMeasurement(m Measurement) error {
	cmd := byte(tempCmd)
	if m == MeasurePressure {
		cmd = pressCmd + byte(d.oss)<<6
	}
	if err := d.writeReg(regCtrlMeas, cmd); err != nil {
		return err
	}
	d.started = true
	d.state = m
	return nil
}

// ReadRawTemperature reads the uncompensated temperature.
func (d *Dev) ReadRawTemperature() (int32, error) {
	if err := d.expect(MeasureTemperature); err != nil {
		return 0, err
	}
	var buf [2]byte
	if err := d.readReg(regData, buf[:]); err != nil {
		return 0, err
	}
	return int32(buf[0])<<8 | int32(buf[1]), nil
}

// ReadRawPressure reads the uncompensated pressure, 16 to 19 bits depending
// on oversampling.
func (d *Dev) ReadRawPressure() (int32, error) {
	if err := d.expect(MeasurePressure); err != nil {
		return 0, err
	}
	var buf [3]byte
	if err := d.readReg(regData, buf[:]); err != nil {
		return 0, err
	}
	raw := int32(buf[0])<<16 | int32(buf[1])<<8 | int32(buf[2])
	return raw >> (8 - d.oss), nil
}

// Temperature runs a temperature conversion. It returns 0.1 °C and the B5
// value Pressure needs.
func (d *Dev) Temperature() (t, b5 int32, err error) {
	if err := d.StartMeasurement(MeasureTemperature); err != nil {
		return 0, 0, err
	}
	d.sleep(ConversionDelay(MeasureTemperature, d.oss))
	raw, err := d.ReadRawTemperature()
	if err != nil {
		return 0, 0, err
	}
	return CompensateTemperature(raw, d.cal)
}

// Pressure runs a pressure conversion and returns Pa. b5 must come from a
// Temperature call made just before.
func (d *Dev) Pressure(b5 int32) (int32, error) {
	if err := d.StartMeasurement(MeasurePressure); err != nil {
		return 0, err
	}
	d.sleep(ConversionDelay(MeasurePressure, d.oss))
	raw, err := d.ReadRawPressure()
	if err != nil {
		return 0, err
	}
	return CompensatePressure(raw, d.oss, d.cal, b5)
}

// Sense reads temperature then pressure. Humidity is left untouched.
func (d *Dev) Sense(e *physic.Env) error {
	r, err := d.reading()
	if err != nil {
		return err
	}
	e.Temperature, e.Pressure = ToPhysic(r.Temperature, r.Pressure)
	return nil
}

// Readings returns an unbounded sequence of temperature and pressure
// samples. Each step runs a temperature conversion, then a pressure
// conversion with the fresh B5.
//
// Errors are yielded and the sequence continues; stop it by breaking out of
// the loop.
func (d *Dev) Readings() iter.Seq2[Reading, error] {
	return func(yield func(Reading, error) bool) {
		for {
			r, err := d.reading()
			if !yield(r, err) {
				return
			}
		}
	}
}

// Pressures is Readings reduced to the pressure in Pa.
func (d *Dev) Pressures() iter.Seq2[int32, error] {
	return func(yield func(int32, error) bool) {
		for r, err := range d.Readings() {
			if !yield(r.Pressure, err) {
				return
			}
		}
	}
}

func (d *Dev) reading() (Reading, error) {
	t, b5, err := d.Temperature()
	if err != nil {
		return Reading{}, err
	}
	p, err := d.Pressure(b5)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Time: d.now(), Temperature: t, Pressure: p}, nil
}

func (d *Dev) expect(m Measurement) error {
	if !d.started || d.state != m {
		return fmt.Errorf("%w: reading %s", ErrWrongMeasurement, m)
	}
	return nil
}

func (d *Dev) readReg(reg byte, b []byte) error {
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return &BusError{Op: "read", Reg: reg, Err: err}
	}
	return nil
}

func (d *Dev) writeReg(reg, v byte) error {
	if err := d.dev.Tx([]byte{reg, v}, nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}
