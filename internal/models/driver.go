package models

import (
	"strings"
	"time"
)

type Driver struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	Address       string    `json:"address"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	VehicleNumber string    `json:"vehicleNumber"`
	AvailableDays []string  `json:"availableDays"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DriverSummary is the form of a driver embedded into a booking.
type DriverSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	AvailableDays []string `json:"availableDays"`
}

func (d *Driver) Summary() *DriverSummary {
	days := make([]string, len(d.AvailableDays))
	copy(days, d.AvailableDays)
	return &DriverSummary{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		AvailableDays: days,
	}
}

// AvailableOn reports whether the driver works on the weekday of date.
func (d *Driver) AvailableOn(date time.Time) bool {
	day := date.Weekday().String()
	for _, v := range d.AvailableDays {
		if v == day {
			return true
		}
	}
	return false
}

// DriverInput is the full set of mutable driver fields.
type DriverInput struct {
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Address       string   `json:"address" yaml:"address"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	VehicleNumber string   `json:"vehicleNumber" yaml:"vehicle_number"`
	AvailableDays []string `json:"availableDays" yaml:"available_days"`
}

// JoinDays and SplitDays convert available days to and from their stored form.
func JoinDays(days []string) string {
	return strings.Join(days, ",")
}

func SplitDays(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
