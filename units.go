package barometer

import "periph.io/x/conn/v3/physic"

// PaToMmHg converts Pa to millimetres of mercury.
func PaToMmHg(pa int32) float64 {
	return float64(pa) * 7.50062e-3
}

// Celsius converts a compensated temperature in 0.1 °C to °C.
func Celsius(t int32) float64 {
	return float64(t) / 10
}

// ToPhysic converts compensated values to periph units.
func ToPhysic(t, p int32) (physic.Temperature, physic.Pressure) {
	return physic.Temperature(t)*100*physic.MilliCelsius + physic.ZeroCelsius,
		physic.Pressure(p) * physic.Pascal
}
