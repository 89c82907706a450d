package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/dashboard"
	"github.com/lifehubapp/lifehub/internal/services/iam"
)

func RegisterDashboard(api huma.API, iamSvc *iam.Service, dashSvc *dashboard.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard-trends",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/trends",
		Summary:     "Daily trend data for charts",
		Description: "One point per day combining health metrics with aggregated work data. Days without data produce empty points so the x axis stays continuous.",
		Tags:        []string{TagDashboard.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.TrendsRequest) (*schemas.TrendsResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		end := today()
		if input.EndDate != nil {
			end = dateOf(*input.EndDate)
		}
		days := input.Days
		if days <= 0 {
			days = 30
		}
		start := end.AddDate(0, 0, -(days - 1))

		points, err := dashSvc.Trends(ctx, userID, start, end)
		if err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.TrendsResponse{}
		resp.Body.StartDate = start
		resp.Body.EndDate = end
		resp.Body.Data = points
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dashboard-overview",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/overview",
		Summary:     "Family overview for one day",
		Tags:        []string{TagDashboard.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.OverviewRequest) (*schemas.OverviewResponse, error) {
		if _, err := iamSvc.RequireID(ctx); err != nil {
			return nil, mapErr(err)
		}

		day := today()
		if input.TargetDate != nil {
			day = dateOf(*input.TargetDate)
		}

		metrics, err := dashSvc.Overview(ctx, day)
		if err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.OverviewResponse{}
		resp.Body.Date = day
		resp.Body.Metrics = metrics
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dashboard-summary",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/summary",
		Summary:     "The caller's core numbers for one day",
		Tags:        []string{TagDashboard.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.OverviewRequest) (*schemas.SummaryResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		day := today()
		if input.TargetDate != nil {
			day = dateOf(*input.TargetDate)
		}

		summary, err := dashSvc.Summary(ctx, userID, day)
		if err != nil {
			return nil, mapErr(err)
		}
		return summary, nil
	})
}

func today() time.Time {
	return dateOf(time.Now())
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
