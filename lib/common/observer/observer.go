// Package observer holds the process wide observables engine events and
// clock ticks are triggered on.
package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

// RosterObserver carries every roster, nomination and expulsion event. Each
// event is triggered three times: under its kind, under `AllRostersEvent`
// and under `RosterEvent` of its roster. The last argument is the event.
var RosterObserver = observable.New()

// HeightObserver is triggered with the new `common.Height` on every clock
// tick.
var HeightObserver = observable.New()

const (
	HeightEvent     = "height"
	AllRostersEvent = "roster-*"
)

// RosterEvent is the event name for the events of one roster.
func RosterEvent(id string) string {
	return "roster-id=" + id
}
