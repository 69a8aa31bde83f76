package barometer

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// calibrationSize is the length of the 0xAA..0xBF block: 11 big-endian words.
const calibrationSize = 22

var (
	// ErrInvalidCalibration is returned when the calibration block is not
	// usable for compensation.
	ErrInvalidCalibration = errors.New("bmp180: invalid calibration data")
)

// Calibration holds the factory coefficients of one BMP180 unit, in register
// order AC1..MD.
type Calibration struct {
	AC1, AC2, AC3 int16
	AC4, AC5, AC6 uint16
	B1, B2        int16
	MB, MC, MD    int16
}

// LoadCalibration decodes the 22 bytes read from registers 0xAA..0xBF.
//
// AC4, AC5 and AC6 scale divisors of the compensation formulas and must not
// be zero.
func LoadCalibration(b []byte) (Calibration, error) {
	if len(b) != calibrationSize {
		return Calibration{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidCalibration, len(b), calibrationSize)
	}

	word := func(i int) uint16 { return binary.BigEndian.Uint16(b[2*i:]) }

	c := Calibration{
		AC1: int16(word(0)),
		AC2: int16(word(1)),
		AC3: int16(word(2)),
		AC4: word(3),
		AC5: word(4),
		AC6: word(5),
		B1:  int16(word(6)),
		B2:  int16(word(7)),
		MB:  int16(word(8)),
		MC:  int16(word(9)),
		MD:  int16(word(10)),
	}
	if c.AC4 == 0 {
		return Calibration{}, fmt.Errorf("%w: AC4 is zero", ErrInvalidCalibration)
	}
	if c.AC5 == 0 {
		return Calibration{}, fmt.Errorf("%w: AC5 is zero", ErrInvalidCalibration)
	}
	if c.AC6 == 0 {
		return Calibration{}, fmt.Errorf("%w: AC6 is zero", ErrInvalidCalibration)
	}
	return c, nil
}

// Bytes encodes the coefficients back into the register layout.
func (c Calibration) Bytes() []byte {
	b := make([]byte, 0, calibrationSize)
	for _, v := range c.words() {
		b = binary.BigEndian.AppendUint16(b, v)
	}
	return b
}

// Coefficients returns the eleven values in register order.
func (c Calibration) Coefficients() [11]int {
	return [11]int{
		int(c.AC1), int(c.AC2), int(c.AC3),
		int(c.AC4), int(c.AC5), int(c.AC6),
		int(c.B1), int(c.B2),
		int(c.MB), int(c.MC), int(c.MD),
	}
}

func (c Calibration) words() [11]uint16 {
	return [11]uint16{
		uint16(c.AC1), uint16(c.AC2), uint16(c.AC3),
		c.AC4, c.AC5, c.AC6,
		uint16(c.B1), uint16(c.B2),
		uint16(c.MB), uint16(c.MC), uint16(c.MD),
	}
}
