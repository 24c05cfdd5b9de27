package models

// TrafficReading represents the flow on the road segment closest to a point.
// Speeds are in km/h; nil means the provider did not report it.
type TrafficReading struct {
	CurrentSpeed  *float64 `json:"currentSpeed,omitempty"`
	FreeFlowSpeed *float64 `json:"freeFlowSpeed,omitempty"`
}

// Congestion returns current speed as a fraction of free-flow speed.
// ok is false when either speed is missing or free-flow speed is zero.
func (t TrafficReading) Congestion() (ratio float64, ok bool) {
	if t.CurrentSpeed == nil || t.FreeFlowSpeed == nil || *t.FreeFlowSpeed == 0 {
		return 0, false
	}
	return *t.CurrentSpeed / *t.FreeFlowSpeed, true
}
