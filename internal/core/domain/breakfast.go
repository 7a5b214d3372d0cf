package domain

import "time"

// Breakfast records one student's attendance to the school breakfast on a day.
type Breakfast struct {
	ID            string
	Date          time.Time
	StudentID     string
	Student       *Student // populated on reads
	Attendance    string
	Fare          string
	Payment       float64
	PaymentMethod string
	Observations  string
}

// Rate is a breakfast fare.
type Rate struct {
	ID    string  `json:"id"`
	Rate  string  `json:"rate"`
	Price float64 `json:"price"`
}

// Center is a school center.
type Center struct {
	ID     string `json:"id"`
	Center string `json:"center"`
}
