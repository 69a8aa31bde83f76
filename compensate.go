package barometer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOversampling is returned for an oversampling setting above 3.
var ErrInvalidOversampling = errors.New("bmp180: invalid oversampling setting")

// Oversampling is the pressure oversampling setting (oss in the datasheet).
// Higher values take longer and are less noisy.
type Oversampling uint8

const (
	UltraLowPower       Oversampling = 0
	Standard            Oversampling = 1
	HighResolution      Oversampling = 2
	UltraHighResolution Oversampling = 3
)

func (o Oversampling) String() string {
	switch o {
	case UltraLowPower:
		return "UltraLowPower"
	case Standard:
		return "Standard"
	case HighResolution:
		return "HighResolution"
	case UltraHighResolution:
		return "UltraHighResolution"
	default:
		return fmt.Sprintf("Oversampling(%d)", uint8(o))
	}
}

func (o Oversampling) valid() error {
	if o > UltraHighResolution {
		return fmt.Errorf("%w: %d", ErrInvalidOversampling, uint8(o))
	}
	return nil
}

// Measurement selects which conversion the sensor runs.
type Measurement uint8

const (
	MeasureTemperature Measurement = iota
	MeasurePressure
)

func (m Measurement) String() string {
	if m == MeasurePressure {
		return "pressure"
	}
	return "temperature"
}

// Maximum pressure conversion times per oss, from the datasheet.
var pressureConversion = [...]time.Duration{
	UltraLowPower:       4500 * time.Microsecond,
	Standard:            7500 * time.Microsecond,
	HighResolution:      13500 * time.Microsecond,
	UltraHighResolution: 25500 * time.Microsecond,
}

const temperatureConversion = 4500 * time.Microsecond

// ConversionTime returns the maximum conversion time of a measurement.
// Temperature does not depend on oss. An oss above 3 gets the time of
// UltraHighResolution, the longest one.
func ConversionTime(m Measurement, oss Oversampling) time.Duration {
	if m == MeasureTemperature {
		return temperatureConversion
	}
	if oss > UltraHighResolution {
		oss = UltraHighResolution
	}
	return pressureConversion[oss]
}

// ConversionDelay is ConversionTime rounded up to whole milliseconds; it is
// what a caller sleeps between starting a measurement and reading it.
func ConversionDelay(m Measurement, oss Oversampling) time.Duration {
	d := ConversionTime(m, oss)
	if r := d % time.Millisecond; r != 0 {
		d += time.Millisecond - r
	}
	return d
}

// CompensateTemperature converts a raw temperature reading into 0.1 °C.
//
// b5 must be passed to CompensatePressure for the pressure conversion that
// follows this temperature conversion.
//
// It fails with ErrInvalidCalibration when raw and the coefficients make
// the X1+MD divisor zero.
func CompensateTemperature(raw int32, cal Calibration) (t, b5 int32, err error) {
	x1 := ((int64(raw) - int64(cal.AC6)) * int64(cal.AC5)) >> 15
	div := x1 + int64(cal.MD)
	if div == 0 {
		return 0, 0, fmt.Errorf("%w: X1+MD is zero for raw temperature %d", ErrInvalidCalibration, raw)
	}
	b := x1 + floorDiv(int64(cal.MC)<<11, div)
	return int32((b + 8) >> 4), int32(b), nil
}

// CompensatePressure converts a raw pressure reading into Pa.
//
// oss must be the setting the conversion ran with and b5 must come from a
// temperature conversion taken just before; a stale b5 skews the result.
//
// It fails with ErrInvalidOversampling for an oss above 3 and with
// ErrInvalidCalibration when the B4 divisor is zero.
func CompensatePressure(raw int32, oss Oversampling, cal Calibration, b5 int32) (int32, error) {
	if err := oss.valid(); err != nil {
		return 0, err
	}
	b6 := int64(b5) - 4000
	b6sq := (b6 * b6) >> 12

	x1 := (int64(cal.B2) * b6sq) >> 11
	x2 := (int64(cal.AC2) * b6) >> 11
	x3 := x1 + x2
	b3 := (((int64(cal.AC1)*4 + x3) << oss) + 2) >> 2

	x1 = (int64(cal.AC3) * b6) >> 13
	x2 = (int64(cal.B1) * b6sq) >> 16
	x3 = ((x1 + x2) + 2) >> 2
	b4 := (uint64(cal.AC4) * uint64(uint32(x3+32768))) >> 15
	if b4 == 0 {
		return 0, fmt.Errorf("%w: B4 is zero for b5 %d", ErrInvalidCalibration, b5)
	}
	b7 := uint32(int64(raw)-b3) * uint32(50000>>oss)

	var p int64
	if b7 < 0x80000000 {
		p = int64((uint64(b7) * 2) / b4)
	} else {
		p = int64((uint64(b7) / b4) * 2)
	}

	x1 = (p >> 8) * (p >> 8)
	x1 = (x1 * 3038) >> 16
	x2 = (-7357 * p) >> 16
	return int32(p + ((x1 + x2 + 3791) >> 4)), nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
