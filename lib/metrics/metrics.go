package metrics

const (
	Namespace       = "roster"
	EngineSubsystem = "engine"
	NodeSubsystem   = "node"
	APISubsystem    = "api"
)

const (
	ResultOK    = "ok"
	ResultError = "error"

	CleanupNominations = "nominations"
	CleanupExpulsions  = "expulsions"
)

var (
	Engine = NopEngineMetrics()
	Node   = NopNodeMetrics()
	API    = NopAPIMetrics()
)

// InitPrometheusMetrics replaces the discarding metrics. Call it once, before
// the engine, the clock and the api are created.
func InitPrometheusMetrics() {
	Engine = PromEngineMetrics()
	Node = PromNodeMetrics()
	API = PromAPIMetrics()
}
