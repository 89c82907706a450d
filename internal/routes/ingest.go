package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/health"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// RegisterIngest wires the work-metric ingestion endpoint. It authenticates
// with the shared X-API-Key header instead of a bearer token, because packets
// arrive from unattended desktop agents.
func RegisterIngest(api huma.API, healthSvc *health.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "ingest-work",
		Method:      http.MethodPost,
		Path:        "/api/v1/ingest/work",
		Summary:     "Ingest a work metric packet",
		Tags:        []string{TagIngest.String()},
	}, func(ctx context.Context, input *schemas.WorkIngestRequest) (*schemas.WorkIngestResponse, error) {
		userID, err := uuid.Parse(input.Body.UserID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid user_id")
		}

		metric := &models.WorkMetric{
			UserID:               userID,
			Timestamp:            input.Body.Timestamp,
			ScreenTimeMinutes:    input.Body.ScreenTimeMinutes,
			FocusScore:           input.Body.FocusScore,
			ActiveWindowCategory: input.Body.ActiveWindowCategory,
		}
		if err := healthSvc.IngestWork(ctx, input.APIKey, metric); err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.WorkIngestResponse{}
		resp.Body.Message = "work metric recorded"
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ingest-health",
		Method:      http.MethodPost,
		Path:        "/api/v1/ingest/health",
		Summary:     "Ingest a day of health data",
		Description: "Merges the non-null fields into the day's row, same as a manual entry.",
		Tags:        []string{TagIngest.String()},
	}, func(ctx context.Context, input *schemas.HealthIngestRequest) (*schemas.HealthMetricResponse, error) {
		userID, err := uuid.Parse(input.Body.UserID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid user_id")
		}

		entry := fromView(&input.Body.HealthMetricView)
		entry.UserID = userID
		saved, err := healthSvc.IngestHealth(ctx, input.APIKey, entry)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.HealthMetricResponse{Body: toView(saved)}, nil
	})
}
