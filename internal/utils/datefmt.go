package utils

import (
	"fmt"
	"time"
	_ "time/tzdata" // Europe/Paris must resolve on hosts without zoneinfo
)

// displayZone is the zone dates are shown in (CET, CEST in summer).
var displayZone = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// FormatDateCET formats t as M/D/YYYY in Central European Time.
func FormatDateCET(t time.Time) string {
	lt := t.In(displayZone)
	return fmt.Sprintf("%d/%d/%d", int(lt.Month()), lt.Day(), lt.Year())
}

// FormatDateTimeCET formats t as "Jan 2, 2006, 3:04 PM" in Central European
// Time.
func FormatDateTimeCET(t time.Time) string {
	return t.In(displayZone).Format("Jan 2, 2006, 3:04 PM")
}
