package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salesdeck/crm-backend/internal/leads"
)

func TestSortLeadsDirections(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := lead("a", "new", withScore(40), withValue(300), withName("zoe"))
	a.CreatedAt = base.AddDate(0, 0, -2)
	a.UpdatedAt = base.AddDate(0, 0, -1)
	b := lead("b", "new", withScore(90), withValue(100), withName("Al"))
	b.CreatedAt = base
	b.UpdatedAt = base
	c := lead("c", "new", withScore(70), withValue(200), withName("mia"))
	c.CreatedAt = base.AddDate(0, 0, -1)
	c.UpdatedAt = base.AddDate(0, 0, -3)

	in := []*leads.Lead{a, b, c}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortByScore, []string{"b", "c", "a"}},
		{SortByValue, []string{"a", "c", "b"}},
		{SortByCreated, []string{"b", "c", "a"}},
		{SortByUpdated, []string{"b", "a", "c"}},
		{SortByName, []string{"b", "c", "a"}}, // Al, mia, zoe
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortLeads(in, tt.key)))
		})
	}
}

func TestSortLeadsStable(t *testing.T) {
	in := []*leads.Lead{
		lead("a", "new", withScore(50)),
		lead("b", "new", withScore(50)),
		lead("c", "new", withScore(50)),
	}

	out := SortLeads(in, SortByScore)
	assert.Equal(t, []string{"a", "b", "c"}, ids(out), "equal keys must keep input order")
}

func TestSortLeadsDoesNotMutateInput(t *testing.T) {
	in := []*leads.Lead{
		lead("a", "new", withScore(10)),
		lead("b", "new", withScore(99)),
	}

	_ = SortLeads(in, SortByScore)
	assert.Equal(t, []string{"a", "b"}, ids(in))
}

func TestSortKeyValid(t *testing.T) {
	assert.True(t, SortByName.Valid())
	assert.False(t, SortKey("magnitude").Valid())
}
