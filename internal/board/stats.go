package board

import (
	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/pipeline"
)

// Stats summarizes the active pipeline across all of its leads,
// independent of the current filter specification.
type Stats struct {
	PipelineID   string  `json:"pipeline_id"`
	TotalLeads   int     `json:"total_leads"`
	TotalValue   float64 `json:"total_value"`
	AverageScore float64 `json:"average_score"`

	// Derived from closed-won stages rather than supplied externally:
	// conversion is won over total, deal size is mean won value, and
	// time-to-close is mean (updated - created) of won leads.
	ConversionRate         float64 `json:"conversion_rate"`
	AverageDealSize        float64 `json:"average_deal_size"`
	AverageTimeToCloseDays float64 `json:"average_time_to_close_days"`
}

func computeStats(all []*leads.Lead, p *pipeline.Pipeline) Stats {
	stats := Stats{PipelineID: p.ID}

	wonStages := make(map[string]struct{})
	for _, st := range p.Stages {
		if st.IsClosedWon {
			wonStages[st.ID] = struct{}{}
		}
	}

	var scoreSum int
	var wonCount int
	var wonValue float64
	var wonCloseDays float64
	for _, l := range all {
		stats.TotalLeads++
		stats.TotalValue += l.Value
		scoreSum += l.Score
		if _, won := wonStages[l.Stage]; won {
			wonCount++
			wonValue += l.Value
			wonCloseDays += l.UpdatedAt.Sub(l.CreatedAt).Hours() / 24
		}
	}

	if stats.TotalLeads > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.TotalLeads)
		stats.ConversionRate = float64(wonCount) / float64(stats.TotalLeads) * 100
	}
	if wonCount > 0 {
		stats.AverageDealSize = wonValue / float64(wonCount)
		stats.AverageTimeToCloseDays = wonCloseDays / float64(wonCount)
	}
	return stats
}
