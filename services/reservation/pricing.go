package reservation

// Total is the number of selected slots times the hourly rate. No rounding is applied.
func Total(selected int, montoPorHora float64) float64 {
	return float64(selected) * montoPorHora
}
