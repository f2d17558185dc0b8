package api

import (
	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/roster/lib/common/observer"
	"boscoin.io/roster/lib/node/runner/api/resource"
	"boscoin.io/roster/lib/roster"
)

// InvalidateCacheOnEvents drops the cached roster page whenever an event of
// that roster is triggered on `ob`. Only roster pages are cached; cleanup
// never changes a roster record. The returned func stops listening.
func (api NetworkHandlerAPI) InvalidateCacheOnEvents(ob *observable.Observable) func() {
	event := observer.AllRostersEvent

	onFunc := func(args ...interface{}) {
		if len(args) < 1 {
			return
		}
		e, ok := args[len(args)-1].(roster.Event)
		if !ok {
			return
		}

		api.cache.Invalidate(resource.RosterURL(e.Roster().String()))
	}
	ob.On(event, onFunc)

	return func() {
		ob.Off(event, onFunc)
	}
}
