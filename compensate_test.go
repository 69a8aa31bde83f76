package barometer

import (
	"errors"
	"testing"
	"time"
)

func TestCompensateTemperature(t *testing.T) {
	data := []struct {
		raw   int32
		t, b5 int32
	}{
		{27898, 150, 2399},
		{32000, 458, 7320},
		{15000, -298, -4775},
	}
	for _, line := range data {
		temp, b5, err := CompensateTemperature(line.raw, datasheetCal)
		if err != nil {
			t.Fatal(err)
		}
		if temp != line.t || b5 != line.b5 {
			t.Fatalf("CompensateTemperature(%d) = %d, %d != %d, %d", line.raw, temp, b5, line.t, line.b5)
		}
	}
}

func TestCompensatePressure(t *testing.T) {
	data := []struct {
		raw int32
		oss Oversampling
		b5  int32
		p   int32
	}{
		{23843, UltraLowPower, 2399, 69964},
		{47686, Standard, 2399, 69962},
		{95372, HighResolution, 2399, 69963},
		{190744, UltraHighResolution, 2399, 69963},
		{40000, UltraLowPower, 2399, 118320},
		// B7 at or above 0x80000000: a large raw, and a raw below B3 wrapping.
		{65535, UltraLowPower, 2399, 195160},
		{0, UltraLowPower, 2399, 256808},
	}
	for _, line := range data {
		p, err := CompensatePressure(line.raw, line.oss, datasheetCal, line.b5)
		if err != nil {
			t.Fatal(err)
		}
		if p != line.p {
			t.Fatalf("CompensatePressure(%d, %s) = %d != %d", line.raw, line.oss, p, line.p)
		}
	}
}

func TestCompensatePressure_deterministic(t *testing.T) {
	first, _ := CompensatePressure(23843, UltraLowPower, datasheetCal, 2399)
	for i := 0; i < 100; i++ {
		// Interleave other calls; nothing may leak between them.
		CompensatePressure(40000, HighResolution, datasheetCal, -4775)
		if p, _ := CompensatePressure(23843, UltraLowPower, datasheetCal, 2399); p != first {
			t.Fatalf("CompensatePressure() = %d != %d", p, first)
		}
	}
}

func TestCompensateTemperature_zeroDivisor(t *testing.T) {
	cal := datasheetCal
	cal.MD = 0
	// raw == AC6 makes X1 zero.
	if _, _, err := CompensateTemperature(int32(cal.AC6), cal); !errors.Is(err, ErrInvalidCalibration) {
		t.Fatalf("CompensateTemperature() error = %v, want ErrInvalidCalibration", err)
	}
}

func TestCompensatePressure_zeroDivisor(t *testing.T) {
	cal := datasheetCal
	cal.AC3 = 14383
	cal.AC4 = 1
	// X3 = -688 so AC4*(X3+32768) >> 15 is zero.
	if _, err := CompensatePressure(23843, UltraLowPower, cal, 2399); !errors.Is(err, ErrInvalidCalibration) {
		t.Fatalf("CompensatePressure() error = %v, want ErrInvalidCalibration", err)
	}
}

func TestCompensatePressure_invalidOversampling(t *testing.T) {
	if _, err := CompensatePressure(23843, 4, datasheetCal, 2399); !errors.Is(err, ErrInvalidOversampling) {
		t.Fatalf("CompensatePressure() error = %v, want ErrInvalidOversampling", err)
	}
}

func TestConversionTime(t *testing.T) {
	want := []time.Duration{4500 * time.Microsecond, 7500 * time.Microsecond, 13500 * time.Microsecond, 25500 * time.Microsecond}
	var prev time.Duration
	for oss := UltraLowPower; oss <= UltraHighResolution; oss++ {
		d := ConversionTime(MeasurePressure, oss)
		if d != want[oss] {
			t.Fatalf("ConversionTime(pressure, %s) = %s != %s", oss, d, want[oss])
		}
		if d < prev {
			t.Fatalf("ConversionTime(pressure, %s) = %s < %s", oss, d, prev)
		}
		prev = d
		if d := ConversionTime(MeasureTemperature, oss); d != 4500*time.Microsecond {
			t.Fatalf("ConversionTime(temperature, %s) = %s", oss, d)
		}
	}
}

func TestConversionDelay(t *testing.T) {
	want := []time.Duration{5 * time.Millisecond, 8 * time.Millisecond, 14 * time.Millisecond, 26 * time.Millisecond}
	for oss := UltraLowPower; oss <= UltraHighResolution; oss++ {
		if d := ConversionDelay(MeasurePressure, oss); d != want[oss] {
			t.Fatalf("ConversionDelay(pressure, %s) = %s != %s", oss, d, want[oss])
		}
	}
	if d := ConversionTime(MeasurePressure, 7); d != ConversionTime(MeasurePressure, UltraHighResolution) {
		t.Fatalf("ConversionTime(pressure, 7) = %s", d)
	}
	if d := ConversionDelay(MeasureTemperature, UltraHighResolution); d != 5*time.Millisecond {
		t.Fatalf("ConversionDelay(temperature) = %s", d)
	}
}

func TestFloorDiv(t *testing.T) {
	data := []struct{ a, b, q int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{-8, 2, -4},
		{0, 5, 0},
	}
	for _, line := range data {
		if q := floorDiv(line.a, line.b); q != line.q {
			t.Fatalf("floorDiv(%d, %d) = %d != %d", line.a, line.b, q, line.q)
		}
	}
}

func TestOversampling_String(t *testing.T) {
	if s := Standard.String(); s != "Standard" {
		t.Fatalf("String() = %q", s)
	}
	if s := Oversampling(9).String(); s != "Oversampling(9)" {
		t.Fatalf("String() = %q", s)
	}
}
