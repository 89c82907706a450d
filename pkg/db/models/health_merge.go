package models

// MergeFrom copies every non-nil metric field of src onto m. Nil fields in
// src leave m untouched, so an update with partial data never clobbers an
// existing value with null. Both remote reconciliation and manual entry rely
// on this.
func (m *HealthMetric) MergeFrom(src *HealthMetric) {
	if src.SleepHours != nil {
		m.SleepHours = src.SleepHours
	}
	if src.LightSleepHours != nil {
		m.LightSleepHours = src.LightSleepHours
	}
	if src.DeepSleepHours != nil {
		m.DeepSleepHours = src.DeepSleepHours
	}
	if src.RemSleepHours != nil {
		m.RemSleepHours = src.RemSleepHours
	}
	if src.RestingHeartRate != nil {
		m.RestingHeartRate = src.RestingHeartRate
	}
	if src.StressLevel != nil {
		m.StressLevel = src.StressLevel
	}
	if src.ExerciseMinutes != nil {
		m.ExerciseMinutes = src.ExerciseMinutes
	}
	if src.Steps != nil {
		m.Steps = src.Steps
	}
	if src.Calories != nil {
		m.Calories = src.Calories
	}
	if src.DistanceKm != nil {
		m.DistanceKm = src.DistanceKm
	}
	if src.BodyBattery != nil {
		m.BodyBattery = src.BodyBattery
	}
	if src.SpO2 != nil {
		m.SpO2 = src.SpO2
	}
	if src.RespirationRate != nil {
		m.RespirationRate = src.RespirationRate
	}
	if src.SleepScore != nil {
		m.SleepScore = src.SleepScore
	}
}

// HasData reports whether the metric carries at least one value. All-null
// rows are not worth persisting.
func (m *HealthMetric) HasData() bool {
	return m.SleepHours != nil ||
		m.LightSleepHours != nil ||
		m.DeepSleepHours != nil ||
		m.RemSleepHours != nil ||
		m.RestingHeartRate != nil ||
		m.StressLevel != nil ||
		m.ExerciseMinutes != nil ||
		m.Steps != nil ||
		m.Calories != nil ||
		m.DistanceKm != nil ||
		m.BodyBattery != nil ||
		m.SpO2 != nil ||
		m.RespirationRate != nil ||
		m.SleepScore != nil
}
