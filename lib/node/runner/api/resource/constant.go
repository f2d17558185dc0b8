package resource

import "strings"

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLNodeInfo         = APIPrefix + APIVersionV1 + "/"
	URLRosters          = APIPrefix + APIVersionV1 + "/rosters"
	URLRoster           = APIPrefix + APIVersionV1 + "/rosters/{id}"
	URLRosterEvents     = APIPrefix + APIVersionV1 + "/rosters/{id}/events"
	URLRosterExpulsions = APIPrefix + APIVersionV1 + "/rosters/{id}/expulsions"
	URLNomination       = APIPrefix + APIVersionV1 + "/rosters/{id}/nominations/{nominee}"
	URLExpulsion        = APIPrefix + APIVersionV1 + "/rosters/{id}/expulsions/{motioner}/{subject}"
	URLAccounts         = APIPrefix + APIVersionV1 + "/accounts/{id}"
	URLOperations       = APIPrefix + APIVersionV1 + "/operations"
)

func RosterURL(id string) string {
	return strings.Replace(URLRoster, "{id}", id, -1)
}

func NominationURL(id, nominee string) string {
	return strings.NewReplacer("{id}", id, "{nominee}", nominee).Replace(URLNomination)
}

func ExpulsionURL(id, motioner, subject string) string {
	return strings.NewReplacer("{id}", id, "{motioner}", motioner, "{subject}", subject).Replace(URLExpulsion)
}
