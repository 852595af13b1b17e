package smartrecruiters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobalert/internal/config"
	"jobalert/internal/domain"
	"jobalert/internal/rank"
	"jobalert/internal/scrape/types"
	"jobalert/internal/scrape/util"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `{"totalFound":4,"offset":0,"limit":20,"content":[
 {"id":"744000001","name":"Backend Developer","location":{"city":"Riyadh","country":"sa"}},
 {"id":"744000002","name":"Data Analyst","location":{"city":"Riyadh"}},
 {"id":"","uuid":"","ref":"","name":"Backend Developer (draft)","location":{}},
 {"uuid":"f1e2","name":"Junior Backend Developer","location":{"remote":true}}
]}`

func TestFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/companies/initech/postings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		_, _ = fmt.Fprint(w, page)
	}))
	defer srv.Close()

	get := util.NewGetter(util.GetterOptions{Timeout: 5 * time.Second, UserAgent: "test", Logger: zerolog.Nop()})
	scorer := rank.Scorer{
		Boost:    []config.Rule{{Tag: "backend", Weight: 1, Any: []string{"backend"}}},
		MinScore: 1,
	}
	s := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "initech", Name: "Initech"}}}, get, scorer, zerolog.Nop())

	res, err := s.Fetch(context.Background(), types.Query{Keyword: "backend developer", Location: "Saudi Arabia"})
	require.NoError(t, err)
	assert.Equal(t, "backend developer", gotQuery)

	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 1, res.Skipped) // no id, no link
	require.Len(t, res.Postings, 2)

	assert.Equal(t, "https://jobs.smartrecruiters.com/initech/744000001", res.Postings[0].URL)
	assert.Equal(t, "Riyadh, sa", res.Postings[0].Location)
	assert.Equal(t, "Initech", res.Postings[0].Company)
	assert.Equal(t, domain.SourceSmartRecruiters, res.Postings[0].Source)

	assert.Equal(t, "https://jobs.smartrecruiters.com/initech/f1e2", res.Postings[1].URL)
	assert.Equal(t, "Remote", res.Postings[1].Location)
}

func TestFetch_UnknownCompany(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	get := util.NewGetter(util.GetterOptions{Timeout: 5 * time.Second, UserAgent: "test", Logger: zerolog.Nop()})
	s := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "nobody"}}}, get, rank.Scorer{}, zerolog.Nop())

	_, err := s.Fetch(context.Background(), types.Query{Keyword: "backend"})
	var se *util.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}
