package barometer_test

import (
	"fmt"
	"log"

	"barometer"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev, err := barometer.NewI2C(bus, barometer.DefaultAddress, &barometer.Opts{Oversampling: barometer.Standard})
	if err != nil {
		log.Fatal(err)
	}

	// Temperature has to be read first; its B5 feeds the pressure formula.
	t, b5, err := dev.Temperature()
	if err != nil {
		log.Fatal(err)
	}
	p, err := dev.Pressure(b5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.1f °C %d Pa\n", barometer.Celsius(t), p)
}

func ExampleCompensatePressure() {
	cal := barometer.Calibration{
		AC1: 408, AC2: -72, AC3: -14383,
		AC4: 32741, AC5: 32757, AC6: 23153,
		B1: 6190, B2: 4,
		MB: -32768, MC: -8711, MD: 2868,
	}
	t, b5, err := barometer.CompensateTemperature(27898, cal)
	if err != nil {
		log.Fatal(err)
	}
	p, err := barometer.CompensatePressure(23843, barometer.UltraLowPower, cal, b5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(t, p)
	// Output: 150 69964
}
