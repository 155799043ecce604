package domain

import "fmt"

// Flight is a row of the read-only flights reference table. The booking
// engine never mutates it; remaining seats live in the capacities table.
type Flight struct {
	ID         int64  `json:"id"`
	DayOfMonth int    `json:"day_of_month"`
	CarrierID  string `json:"carrier_id"`
	FlightNum  string `json:"flight_num"`
	OriginCity string `json:"origin_city"`
	DestCity   string `json:"dest_city"`
	Duration   int    `json:"duration"`
	Capacity   int    `json:"capacity"`
	Price      int64  `json:"price"`
}

func (f Flight) String() string {
	return fmt.Sprintf("ID: %d Day: %d Carrier: %s Number: %s Origin: %s Dest: %s Duration: %d Capacity: %d Price: %d",
		f.ID, f.DayOfMonth, f.CarrierID, f.FlightNum, f.OriginCity, f.DestCity, f.Duration, f.Capacity, f.Price)
}
