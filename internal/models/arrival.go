package models

import "time"

// Arrival is the soonest predicted arrival at a stop. The zero value means
// no prediction is available, which is a normal outcome for many stops.
type Arrival struct {
	Available    bool      `json:"available"`
	ArrivalTime  time.Time `json:"arrivalTime,omitempty"`
	DisplayTime  string    `json:"displayTime,omitempty"`
	MinutesUntil int       `json:"minutesUntil"`
	RouteID      string    `json:"routeId,omitempty"`
}

var NoArrival = Arrival{}
