package applications

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/schedule"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companies(apps []models.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.CompanyName)
	}
	return out
}

func TestFilter(t *testing.T) {
	apps := []models.Application{
		{CompanyName: "Acme Corp"},
		{CompanyName: "Beta Inc"},
		{CompanyName: "ACME Labs"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "case insensitive", query: "acme", want: []string{"Acme Corp", "ACME Labs"}},
		{name: "empty matches all", query: "", want: []string{"Acme Corp", "Beta Inc", "ACME Labs"}},
		{name: "inner substring", query: "ta i", want: []string{"Beta Inc"}},
		{name: "no match", query: "gamma", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(apps, tt.query)
			assert.Empty(t, cmp.Diff(tt.want, companies(got)))
		})
	}
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	apps := []models.Application{{CompanyName: "Acme"}}
	got := Filter(apps, "")
	got[0].CompanyName = "changed"
	assert.Equal(t, "Acme", apps[0].CompanyName)
}

func TestContainsFold_Unicode(t *testing.T) {
	assert.True(t, ContainsFold("Émile & Co", "émile"))
	assert.False(t, ContainsFold("Beta", "acme"))
}

func TestSort_ByUpcoming_AbsentLastAndStable(t *testing.T) {
	now := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	apps := []models.Application{
		{ID: "none-1", CompanyName: "N1"},
		{ID: "mar", CompanyName: "M", InterviewDate: "Mar 1, 2024"},
		{ID: "past", CompanyName: "P", OnlineTestDate: "Jan 2, 2024"},
		{ID: "feb-a", CompanyName: "FA", OnlineTestDate: "Feb 1, 2024"},
		{ID: "none-2", CompanyName: "N2", OnlineTestDate: "garbage"},
		{ID: "feb-b", CompanyName: "FB", InterviewDate: "Feb 1, 2024", OnlineTestDate: "Apr 1, 2024"},
	}

	got := SortWith(schedule.Selector{Loc: time.UTC}, apps, ByUpcoming, now)

	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"feb-a", "feb-b", "mar", "none-1", "past", "none-2"}, ids)
	assert.Equal(t, "none-1", apps[0].ID, "input must not be reordered")
}

func TestSort_ByCompany_Ordinal(t *testing.T) {
	apps := []models.Application{
		{ID: "1", CompanyName: "beta"},
		{ID: "2", CompanyName: "Acme"},
		{ID: "3", CompanyName: "Zeta"},
		{ID: "4", CompanyName: "Acme"},
	}
	got := Sort(apps, ByCompany, time.Now())
	assert.Equal(t, []string{"Acme", "Acme", "Zeta", "beta"}, companies(got))
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestSort_Empty(t *testing.T) {
	got := Sort(nil, ByUpcoming, time.Now())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, ByCompany, ParseSortMode(" Company "))
	assert.Equal(t, ByUpcoming, ParseSortMode("upcoming"))
	assert.Equal(t, ByUpcoming, ParseSortMode(""))
	assert.Equal(t, ByUpcoming, ParseSortMode("whatever"))
}
