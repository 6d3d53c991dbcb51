package domain

import (
	"math"
	"time"
)

const earningsLayout = "2006-01-02"

// DaysToEarnings devuelve los días completos desde now hasta la fecha de
// earnings (negativo si ya pasó). ok=false si la fecha está vacía o no parsea:
// las estrategias tratan ese caso como dato blando, no como rechazo.
//
// El now se inyecta para que la evaluación sea determinista y testeable.
func DaysToEarnings(date string, now time.Time) (days int, ok bool) {
	earn, err := time.Parse(earningsLayout, date)
	if err != nil {
		return 0, false
	}
	return int(math.Floor(earn.Sub(now).Hours() / 24)), true
}

// DaysSinceEarnings devuelve los días completos transcurridos desde la fecha
// de earnings hasta now (negativo si aún no llegó).
func DaysSinceEarnings(date string, now time.Time) (days int, ok bool) {
	earn, err := time.Parse(earningsLayout, date)
	if err != nil {
		return 0, false
	}
	return int(math.Floor(now.Sub(earn).Hours() / 24)), true
}
