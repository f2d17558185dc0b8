package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/GianlucaGuarini/go-observable"
	"github.com/gorilla/mux"

	"boscoin.io/roster/lib/common/observer"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/network/httputils"
	"boscoin.io/roster/lib/roster"
)

const DefaultContentType = "application/json"

var (
	// StreamHeartbeat is the interval an empty line is sent on an idle
	// stream.
	StreamHeartbeat = 15 * time.Second

	// StreamBufferSize is the number of events a stream holds for a slow
	// reader before it is closed.
	StreamBufferSize = 64
)

// EventMessage is one line of an event stream.
type EventMessage struct {
	Kind     string       `json:"kind"`
	RosterID string       `json:"roster_id"`
	Event    roster.Event `json:"event"`
}

// RenderEvent renders `roster.Event` as `EventMessage`, nil as an empty
// line and anything else as plain json.
func RenderEvent(v interface{}) ([]byte, error) {
	switch e := v.(type) {
	case nil:
		return []byte{}, nil
	case roster.Event:
		return json.Marshal(EventMessage{Kind: e.Kind(), RosterID: e.Roster().String(), Event: e})
	default:
		return json.Marshal(e)
	}
}

// GetRosterEventsHandler streams the events of one roster. The roster is
// rendered first; events triggered meanwhile follow it.
func (api NetworkHandlerAPI) GetRosterEventsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := roster.ParseRosterID(mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	ro, err := api.engine.GetRoster(id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	defer metrics.API.StreamOpened("roster")()

	es := NewEventStream(w, r, RenderEvent, DefaultContentType)
	run := es.Subscribe(observer.RosterObserver, observer.RosterEvent(id.String()))
	es.Render(ro)
	run()
}

// GetEventsHandler streams the events of every roster.
func (api NetworkHandlerAPI) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	defer metrics.API.StreamOpened("all")()

	es := NewEventStream(w, r, RenderEvent, DefaultContentType)
	run := es.Subscribe(observer.RosterObserver, observer.AllRostersEvent)
	es.Render(nil)
	run()
}

type RenderFunc func(v interface{}) ([]byte, error)

// EventStream writes one rendered value per line and flushes it.
type EventStream struct {
	sync.Mutex

	contentType string
	render      RenderFunc
	request     *http.Request
	writer      http.ResponseWriter
	flusher     http.Flusher
	err         error
	started     bool
}

func NewEventStream(w http.ResponseWriter, r *http.Request, render RenderFunc, contentType string) *EventStream {
	es := &EventStream{
		request:     r,
		writer:      w,
		render:      render,
		contentType: contentType,
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		es.err = fmt.Errorf("http: can't do chunked response")
		return es
	}
	es.flusher = flusher

	return es
}

// Render writes `v` as one line.
func (s *EventStream) Render(v interface{}) {
	if s.err != nil {
		return
	}

	b, err := s.render(v)
	if err != nil {
		b = errorLine(err)
	}

	s.writeLine(b)
}

func (s *EventStream) writeLine(b []byte) {
	s.Lock()
	defer s.Unlock()

	if !s.started {
		s.writer.Header().Set("Content-Type", s.contentType)
		s.started = true
	}

	s.writer.Write(append(b, '\n'))
	s.flusher.Flush()
}

// Subscribe listens to `events` on `ob` and returns the func which writes
// them until the request is gone. Events triggered between Subscribe and
// the returned func are kept.
//
// 	es := NewEventStream(w, r, RenderEvent, DefaultContentType)
// 	run := es.Subscribe(observer.RosterObserver, "roster-id=<id>")
// 	es.Render(roster)
// 	run()
func (s *EventStream) Subscribe(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		return func() {}
	}

	event := strings.Join(events, " ")
	queue := make(chan interface{}, StreamBufferSize)
	overflow := make(chan struct{})
	var overflowOnce sync.Once

	onFunc := func(args ...interface{}) {
		if len(args) < 1 {
			return
		}

		select {
		case queue <- args[len(args)-1]:
		default:
			overflowOnce.Do(func() { close(overflow) })
		}
	}
	ob.On(event, onFunc)

	return func() {
		defer ob.Off(event, onFunc)

		heartbeat := time.NewTicker(StreamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case v := <-queue:
				s.Render(v)
			case <-heartbeat.C:
				s.writeLine([]byte{})
			case <-overflow:
				s.writeLine(errorLine(errors.CapacityExceeded.Clone().SetData("collection", "stream")))
				return
			case <-s.request.Context().Done():
				return
			}
		}
	}
}

func errorLine(err error) []byte {
	b, err := json.Marshal(httputils.NewErrorProblem(err, httputils.StatusCode(err)))
	if err != nil {
		return []byte{}
	}
	return b
}
