// Package demo seeds deterministic sample data for development.
package demo

import (
	"context"
	"fmt"

	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/pipeline"
	"github.com/salesdeck/crm-backend/internal/users"
)

// Users returns the sample owner directory.
func Users() []*users.User {
	return []*users.User{
		{ID: "u-ana", Name: "Ana Reyes", AvatarURL: "https://cdn.example.com/avatars/ana.png"},
		{ID: "u-ben", Name: "Ben Okafor", AvatarURL: "https://cdn.example.com/avatars/ben.png"},
		{ID: "u-mia", Name: "Mia Laurent", AvatarURL: "https://cdn.example.com/avatars/mia.png"},
	}
}

// SalesPipeline returns the default sample pipeline.
func SalesPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		ID:          "sales",
		Name:        "Sales Pipeline",
		Description: "Default sales process",
		IsDefault:   true,
		Stages: []pipeline.Stage{
			{ID: "new", Name: "New", Color: "#3b82f6", Order: 1},
			{ID: "contacted", Name: "Contacted", Color: "#8b5cf6", Order: 2},
			{ID: "qualified", Name: "Qualified", Color: "#f59e0b", Order: 3},
			{ID: "proposal", Name: "Proposal", Color: "#f97316", Order: 4},
			{ID: "won", Name: "Closed Won", Color: "#22c55e", Order: 5, IsClosedWon: true},
			{ID: "lost", Name: "Closed Lost", Color: "#ef4444", Order: 6, IsClosedLost: true},
		},
	}
}

// RenewalsPipeline returns a secondary sample pipeline.
func RenewalsPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		ID:          "renewals",
		Name:        "Renewals",
		Description: "Existing customer renewals",
		Stages: []pipeline.Stage{
			{ID: "upcoming", Name: "Upcoming", Color: "#3b82f6", Order: 1},
			{ID: "in-touch", Name: "In Touch", Color: "#f59e0b", Order: 2},
			{ID: "renewed", Name: "Renewed", Color: "#22c55e", Order: 3, IsClosedWon: true},
			{ID: "churned", Name: "Churned", Color: "#ef4444", Order: 4, IsClosedLost: true},
		},
	}
}

// Seed loads the sample pipelines and leads into the given stores.
func Seed(ctx context.Context, store leads.Store, catalog pipeline.Catalog) error {
	for _, p := range []*pipeline.Pipeline{SalesPipeline(), RenewalsPipeline()} {
		if err := catalog.Save(ctx, p); err != nil {
			return fmt.Errorf("demo: save pipeline %s: %w", p.ID, err)
		}
	}

	samples := []*leads.CreateLeadRequest{
		{
			PipelineID: "sales", Stage: "new",
			Name: "Dana Whitfield", Email: "dana@brightline.io", Phone: "+15550100",
			Company: "Brightline", Position: "VP Marketing",
			Source: leads.SourceWebsite, Value: 12000, Score: 82,
			OwnerID: "u-ana", Tags: []string{"hot-lead", "saas"},
			AI: &leads.AIInsight{ConversionProbability: 74, Priority: leads.PriorityHigh, NextBestAction: "Schedule a demo call"},
		},
		{
			PipelineID: "sales", Stage: "new",
			Name: "Marcus Till", Email: "marcus@tillandco.com", Phone: "+15550101",
			Company: "Till & Co", Position: "Owner",
			Source: leads.SourceReferral, Value: 4500, Score: 55,
			OwnerID: "u-ben", Tags: []string{"smb"},
		},
		{
			PipelineID: "sales", Stage: "contacted",
			Name: "Priya Nair", Email: "priya@corelattice.com", Phone: "+15550102",
			Company: "CoreLattice", Position: "CTO",
			Source: leads.SourceEvent, Value: 28000, Score: 68,
			OwnerID: "u-ana", Tags: []string{"enterprise", "hot-lead"},
		},
		{
			PipelineID: "sales", Stage: "qualified",
			Name: "Jonas Beck", Email: "jonas@beckfreight.de", Phone: "+15550103",
			Company: "Beck Freight", Position: "Operations Lead",
			Source: leads.SourceColdCall, Value: 9800, Score: 47,
			OwnerID: "u-mia",
		},
		{
			PipelineID: "sales", Stage: "proposal",
			Name: "Sofia Marchetti", Email: "sofia@marchettigroup.it", Phone: "+15550104",
			Company: "Marchetti Group", Position: "CEO",
			Source: leads.SourceAds, Value: 41000, Score: 90,
			OwnerID: "u-ben", Tags: []string{"hot-lead", "enterprise"},
			AI: &leads.AIInsight{ConversionProbability: 88, Priority: leads.PriorityHigh, NextBestAction: "Send revised pricing"},
		},
		{
			PipelineID: "sales", Stage: "won",
			Name: "Ravi Shah", Email: "ravi@lumenpay.com", Phone: "+15550105",
			Company: "LumenPay", Position: "Head of Growth",
			Source: leads.SourceSocialMedia, Value: 16500, Score: 77,
			OwnerID: "u-mia", Tags: []string{"saas"},
		},
		{
			PipelineID: "renewals", Stage: "upcoming",
			Name: "Elena Voss", Email: "elena@vossmedia.com", Phone: "+15550106",
			Company: "Voss Media", Position: "Managing Director",
			Source: leads.SourceOther, Value: 7200, Score: 61,
			OwnerID: "u-ana", Tags: []string{"renewal"},
		},
	}

	for _, req := range samples {
		if _, err := store.Create(ctx, req); err != nil {
			return fmt.Errorf("demo: seed lead %s: %w", req.Name, err)
		}
	}
	return nil
}
