package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/common/observer"
	"boscoin.io/roster/lib/errors"
	"boscoin.io/roster/lib/network/httpcache"
	"boscoin.io/roster/lib/roster"
)

func TestGetRosterHandler(t *testing.T) {
	ta := prepareAPIServer(t, nil)
	defer ta.Close()

	founder := ta.fund(t, 10000)
	id, err := ta.engine.Create(founder.Address(), "title")
	require.NoError(t, err)

	status, m := ta.get(t, ta.url("/rosters/"+id.String()))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, id.String(), m["id"])
	require.Equal(t, founder.Address(), m["founder"])
	require.Equal(t, "active", m["status"])

	{ // malformed id
		status, m := ta.get(t, ta.url("/rosters/not-a-roster"))
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, float64(errors.InvalidRosterID.Code), m["code"])
	}

	{ // unknown roster
		status, m := ta.get(t, ta.url("/rosters/"+roster.NewRosterID("someone", "else").String()))
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, float64(errors.NotFound.Code), m["code"])
	}

	{ // unknown nomination
		status, m := ta.get(t, ta.url("/rosters/"+id.String()+"/nominations/"+keypair.Random().Address()))
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, float64(errors.NominationNotFound.Code), m["code"])
	}

	{ // unknown proposal
		a, b := keypair.Random().Address(), keypair.Random().Address()
		status, m := ta.get(t, ta.url("/rosters/"+id.String()+"/expulsions/"+a+"/"+b))
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, float64(errors.ProposalNotFound.Code), m["code"])
	}
}

func TestGetRostersHandler(t *testing.T) {
	ta := prepareAPIServer(t, nil)
	defer ta.Close()

	founder := ta.fund(t, 100000)

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := ta.engine.Create(founder.Address(), fmt.Sprintf("roster %d", i))
		require.NoError(t, err)
		ids = append(ids, id.String())
	}

	records := func(m map[string]interface{}) (found []string) {
		embedded, _ := m["_embedded"].(map[string]interface{})
		list, _ := embedded["records"].([]interface{})
		for _, r := range list {
			found = append(found, r.(map[string]interface{})["id"].(string))
		}
		return
	}

	status, m := ta.get(t, ta.url("/rosters"))
	require.Equal(t, http.StatusOK, status)
	all := records(m)
	require.ElementsMatch(t, ids, all)

	// page by 2 following the next links
	var paged []string
	next := ta.url("/rosters") + "?limit=2"
	for i := 0; i < 3; i++ {
		status, m = ta.get(t, next)
		require.Equal(t, http.StatusOK, status)
		page := records(m)
		require.True(t, len(page) <= 2)
		paged = append(paged, page...)

		links := m["_links"].(map[string]interface{})
		next = links["next"].(map[string]interface{})["href"].(string)
	}
	require.Equal(t, all, paged)

	{ // the last next link gives an empty page
		status, m = ta.get(t, next)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, records(m))
	}

	{ // reverse
		status, m = ta.get(t, ta.url("/rosters")+"?reverse=true&limit=1")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, []string{all[len(all)-1]}, records(m))
	}

	{ // cursor is exclusive
		cursor := base64.StdEncoding.EncodeToString([]byte(roster.GetRosterKey(mustParse(t, all[0]))))
		status, m = ta.get(t, ta.url("/rosters")+"?limit=1&cursor="+url.QueryEscape(cursor))
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, []string{all[1]}, records(m))
	}

	{ // limit out of range
		status, m = ta.get(t, ta.url("/rosters")+"?limit=1000")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, float64(errors.BadRequestParameter.Code), m["code"])
	}
}

func mustParse(t *testing.T, s string) roster.RosterID {
	id, err := roster.ParseRosterID(s)
	require.NoError(t, err)
	return id
}

func TestGetRosterHandlerCached(t *testing.T) {
	adapter, err := httpcache.NewMemoryAdapter(100)
	require.NoError(t, err)
	cache, err := httpcache.NewPageCache(httpcache.WithAdapter(adapter))
	require.NoError(t, err)

	ta := prepareAPIServer(t, cache)
	defer ta.Close()

	founder := ta.fund(t, 10000)
	id, err := ta.engine.Create(founder.Address(), "title")
	require.NoError(t, err)

	rosterURL := ta.url("/rosters/" + id.String())

	status, m := ta.get(t, rosterURL)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "active", m["status"])

	// without invalidation the cached page is served
	require.NoError(t, ta.engine.SetStatus(founder.Address(), id, roster.RosterInactive))
	_, m = ta.get(t, rosterURL)
	require.Equal(t, "active", m["status"])

	stop := ta.api.InvalidateCacheOnEvents(observer.RosterObserver)
	defer stop()

	require.NoError(t, ta.engine.SetStatus(founder.Address(), id, roster.RosterActive))
	require.NoError(t, ta.engine.SetStatus(founder.Address(), id, roster.RosterInactive))

	deadline := time.Now().Add(time.Second)
	for {
		_, m = ta.get(t, rosterURL)
		if m["status"] == "inactive" || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, "inactive", m["status"])
}
