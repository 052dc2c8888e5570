package assignment

// EstimateCost projects the labor cost of assigning a candidate: hourly rate
// times fractional shift hours. An unknown rate yields 0; no rounding is
// applied here, presentation rounding is the caller's concern.
func EstimateCost(hourlyRate *float64, durationHours float64) float64 {
	if hourlyRate == nil {
		return 0
	}
	return *hourlyRate * durationHours
}
