package board

import (
	"sort"

	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/pipeline"
)

// StageView is the per-stage partition of the filtered lead collection
// with its derived metrics. Nothing here is stored; it is recomputed on
// every read.
type StageView struct {
	Stage        pipeline.Stage `json:"stage"`
	Leads        []*leads.Lead  `json:"leads"`
	Count        int            `json:"count"`
	TotalValue   float64        `json:"total_value"`
	AverageScore float64        `json:"average_score"`
}

// Aggregate partitions the already-filtered/sorted collection by stage id
// and computes per-stage metrics. Partitioning uses the input collection
// directly so search and filters apply to every column at once. Leads
// whose stage matches none of the given stages are dropped, never an
// error. Output is ordered by ascending stage order.
func Aggregate(ordered []*leads.Lead, stages []pipeline.Stage) []StageView {
	byStage := make(map[string][]*leads.Lead, len(stages))
	for _, l := range ordered {
		byStage[l.Stage] = append(byStage[l.Stage], l)
	}

	out := make([]StageView, 0, len(stages))
	for _, st := range stages {
		members := byStage[st.ID]
		view := StageView{
			Stage: st,
			Leads: members,
			Count: len(members),
		}
		if view.Leads == nil {
			view.Leads = []*leads.Lead{}
		}
		var scoreSum int
		for _, l := range members {
			view.TotalValue += l.Value
			scoreSum += l.Score
		}
		// Average of an empty column is 0, not NaN.
		if len(members) > 0 {
			view.AverageScore = float64(scoreSum) / float64(len(members))
		}
		out = append(out, view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stage.Order < out[j].Stage.Order
	})
	return out
}
