package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/health"
	"github.com/lifehubapp/lifehub/internal/services/iam"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

func RegisterHealthMetrics(api huma.API, iamSvc *iam.Service, healthSvc *health.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "health-upsert",
		Method:      http.MethodPut,
		Path:        "/api/v1/health/metrics",
		Summary:     "Record health data manually",
		Description: "Merges the non-null fields into the day's row; omitted fields keep their existing values.",
		Tags:        []string{TagDashboard.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.HealthMetricUpsertRequest) (*schemas.HealthMetricResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		entry := fromView(&input.Body)
		entry.UserID = userID
		saved, err := healthSvc.Upsert(ctx, entry)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.HealthMetricResponse{Body: toView(saved)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "health-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/health/metrics",
		Summary:     "List health data for a date range",
		Tags:        []string{TagDashboard.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.HealthMetricsListRequest) (*schemas.HealthMetricsListResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		end := today()
		start := end.AddDate(0, 0, -30)
		if !input.EndDate.IsZero() {
			end = dateOf(input.EndDate)
		}
		if !input.StartDate.IsZero() {
			start = dateOf(input.StartDate)
		}

		metrics, err := healthSvc.List(ctx, userID, start, end)
		if err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.HealthMetricsListResponse{}
		resp.Body.Metrics = make([]schemas.HealthMetricView, 0, len(metrics))
		for i := range metrics {
			resp.Body.Metrics = append(resp.Body.Metrics, toView(&metrics[i]))
		}
		resp.Body.Count = len(resp.Body.Metrics)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "health-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/health/metrics/{date}",
		Summary:     "Delete a day's health data",
		Tags:        []string{TagDashboard.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.HealthMetricDeleteRequest) (*schemas.HealthMetricDeleteResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		day, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid date, expected YYYY-MM-DD")
		}
		if err := healthSvc.Delete(ctx, userID, day); err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.HealthMetricDeleteResponse{}
		resp.Body.Message = "health metric deleted"
		return resp, nil
	})
}

func fromView(v *schemas.HealthMetricView) *models.HealthMetric {
	return &models.HealthMetric{
		Date:             v.Date,
		SleepHours:       v.SleepHours,
		LightSleepHours:  v.LightSleepHours,
		DeepSleepHours:   v.DeepSleepHours,
		RemSleepHours:    v.RemSleepHours,
		RestingHeartRate: v.RestingHeartRate,
		StressLevel:      v.StressLevel,
		ExerciseMinutes:  v.ExerciseMinutes,
		Steps:            v.Steps,
		Calories:         v.Calories,
		DistanceKm:       v.DistanceKm,
		BodyBattery:      v.BodyBattery,
		SpO2:             v.SpO2,
		RespirationRate:  v.RespirationRate,
		SleepScore:       v.SleepScore,
	}
}

func toView(m *models.HealthMetric) schemas.HealthMetricView {
	return schemas.HealthMetricView{
		Date:             m.Date,
		SleepHours:       m.SleepHours,
		LightSleepHours:  m.LightSleepHours,
		DeepSleepHours:   m.DeepSleepHours,
		RemSleepHours:    m.RemSleepHours,
		RestingHeartRate: m.RestingHeartRate,
		StressLevel:      m.StressLevel,
		ExerciseMinutes:  m.ExerciseMinutes,
		Steps:            m.Steps,
		Calories:         m.Calories,
		DistanceKm:       m.DistanceKm,
		BodyBattery:      m.BodyBattery,
		SpO2:             m.SpO2,
		RespirationRate:  m.RespirationRate,
		SleepScore:       m.SleepScore,
	}
}
