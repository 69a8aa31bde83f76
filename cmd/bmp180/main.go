package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"barometer"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

var (
	busName    = flag.String("bus", "", "I²C bus to use")
	addr       = flag.Uint("addr", uint(barometer.DefaultAddress), "device address")
	oss        = flag.Uint("oss", 0, "pressure oversampling setting, 0 to 3")
	temps      = flag.Int("temps", 333, "number of temperature readings")
	count      = flag.Int("count", 0, "number of pressure readings, 0 for no limit")
	csvOut     = flag.Bool("csv", false, "print pressure readings as CSV")
	crossCheck = flag.Bool("crosscheck", false, "also read once through periph's bmxx80 driver")
)

func main() {
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	bus, err := i2creg.Open(*busName)
	if err != nil {
		log.Fatalf("failed to open I²C bus: %v", err)
	}
	defer bus.Close()

	if *oss > uint(barometer.UltraHighResolution) {
		log.Fatalf("-oss must be 0 to 3, got %d", *oss)
	}
	dev, err := barometer.NewI2C(bus, uint16(*addr), &barometer.Opts{Oversampling: barometer.Oversampling(*oss)})
	if err != nil {
		log.Fatal(err)
	}

	// Bus errors here usually mean bad wiring.
	id, err := dev.ChipID()
	switch {
	case errors.Is(err, barometer.ErrUnexpectedChipID):
		log.Printf("warning: %v", err)
	case err != nil:
		log.Fatal(err)
	}
	fmt.Printf("chip_id: %#x\n", id)

	fmt.Println("Calibration data from registers:")
	fmt.Println(dev.Calibration().Coefficients())

	if *crossCheck {
		if err := compare(bus, dev); err != nil {
			log.Printf("crosscheck: %v", err)
		}
	}

	fmt.Println("Reading temperature in a cycle.")
	delay := barometer.ConversionDelay(barometer.MeasureTemperature, dev.Oversampling())
	for i := 0; i < *temps; i++ {
		t, _, err := dev.Temperature()
		if err != nil {
			log.Printf("Error reading temperature: %v", err)
			continue
		}
		fmt.Printf("Temperature from BMP180: %.1f °C\tDelay: %d [ms]\n", barometer.Celsius(t), delay.Milliseconds())
	}

	fmt.Println("Reading pressure using an iterator!")
	if err := printPressures(dev); err != nil {
		log.Fatal(err)
	}
}

// printPressures prints -count readings, or runs forever when it is 0. It
// only fails when the output can not be written.
func printPressures(dev *barometer.Dev) error {
	delay := barometer.ConversionDelay(barometer.MeasurePressure, dev.Oversampling())

	var w *barometer.CSVWriter
	if *csvOut {
		w = barometer.NewCSVWriter(os.Stdout)
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}

	n := 0
	for r, err := range dev.Readings() {
		switch {
		case err != nil:
			log.Printf("Error reading pressure: %v", err)
		case w != nil:
			if err := w.WriteReading(r); err != nil {
				return err
			}
		default:
			fmt.Printf("Pressure from BMP180: %d Pa\t%.2f mm Hg\tDelay: %d [ms]\n", r.Pressure, barometer.PaToMmHg(r.Pressure), delay.Milliseconds())
		}
		if n++; *count > 0 && n >= *count {
			break
		}
	}
	return nil
}

// compare prints one reading from this driver next to one from bmxx80.
func compare(bus i2c.Bus, dev *barometer.Dev) error {
	var ours physic.Env
	if err := dev.Sense(&ours); err != nil {
		return err
	}

	ref, err := bmxx80.NewI2C(bus, uint16(*addr), &bmxx80.DefaultOpts)
	if err != nil {
		return err
	}
	defer ref.Halt()

	var theirs physic.Env
	if err := ref.Sense(&theirs); err != nil {
		return err
	}
	fmt.Printf("barometer: %s %s\nbmxx80:    %s %s\n", ours.Temperature, ours.Pressure, theirs.Temperature, theirs.Pressure)
	return nil
}
