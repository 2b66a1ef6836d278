// Package progress aggregates a user's logged sets into the statistics shown
// on the progress page. Everything here is a pure function of its inputs.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// DayStat is the per-workout-date volume aggregate.
type DayStat struct {
	Date            string  `json:"date"`
	TotalSets       int     `json:"total_sets"`
	TotalVolume     float64 `json:"total_volume"`
	TotalVolumeTons float64 `json:"total_volume_tons"`
	AvgVolume       float64 `json:"avg_volume"`
}

// ExerciseStat is the per-exercise aggregate across all time.
type ExerciseStat struct {
	Name        string             `json:"name"`
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
	TotalSets   int                `json:"total_sets"`
	MaxWeight   float64            `json:"max_weight"`
	BestE1RM    float64            `json:"best_e1rm"`
}

// WeightPoint is one point of the per-exercise strength series.
type WeightPoint struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"max_weight"`
}

// Summary is the all-time aggregate for the progress header.
type Summary struct {
	TotalWorkoutDays    int     `json:"total_workout_days"`
	TotalSetsAll        int     `json:"total_sets_all"`
	TotalVolumeTonsAll  float64 `json:"total_volume_tons_all"`
	AvgVolumePerWorkout float64 `json:"avg_volume_per_workout"`
}

// DailySeries groups records by workout date, ascending.
func DailySeries(records []models.SetRecord) []DayStat {
	type acc struct {
		date   time.Time
		sets   int
		volume float64
	}
	byDate := map[string]*acc{}
	for _, r := range records {
		key := r.Date.Format(models.DateLayout)
		a, ok := byDate[key]
		if !ok {
			a = &acc{date: r.Date}
			byDate[key] = a
		}
		a.sets++
		a.volume += r.Volume()
	}

	days := make([]DayStat, 0, len(byDate))
	for key, a := range byDate {
		days = append(days, DayStat{
			Date:            key,
			TotalSets:       a.sets,
			TotalVolume:     a.volume,
			TotalVolumeTons: roundTo(a.volume/1000, 2),
			AvgVolume:       roundTo(a.volume/float64(max(a.sets, 1)), 1),
		})
	}
	// YYYY-MM-DD sorts chronologically as a string
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// ExerciseSummaries groups records by exercise name and muscle group, ordered
// by muscle group then name.
func ExerciseSummaries(records []models.SetRecord) []ExerciseStat {
	type key struct {
		name  string
		group models.MuscleGroup
	}
	byKey := map[key]*ExerciseStat{}
	for _, r := range records {
		k := key{r.ExerciseName, r.MuscleGroup}
		st, ok := byKey[k]
		if !ok {
			st = &ExerciseStat{Name: r.ExerciseName, MuscleGroup: r.MuscleGroup, MaxWeight: r.Weight}
			byKey[k] = st
		}
		st.TotalSets++
		if r.Weight > st.MaxWeight {
			st.MaxWeight = r.Weight
		}
		if e := EstimatedOneRepMax(r.Weight, r.Reps); e > st.BestE1RM {
			st.BestE1RM = e
		}
	}

	out := make([]ExerciseStat, 0, len(byKey))
	for _, st := range byKey {
		st.BestE1RM = roundTo(st.BestE1RM, 1)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MuscleGroup != out[j].MuscleGroup {
			return out[i].MuscleGroup < out[j].MuscleGroup
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MaxWeightSeries returns the heaviest weight lifted per date for one exercise.
func MaxWeightSeries(records []models.SetRecord, exerciseID uuid.UUID) []WeightPoint {
	best := map[string]float64{}
	for _, r := range records {
		if r.ExerciseID != exerciseID {
			continue
		}
		key := r.Date.Format(models.DateLayout)
		if w, ok := best[key]; !ok || r.Weight > w {
			best[key] = r.Weight
		}
	}

	out := make([]WeightPoint, 0, len(best))
	for d, w := range best {
		out = append(out, WeightPoint{Date: d, MaxWeight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Summarize derives the all-time summary from the daily series.
func Summarize(days []DayStat) Summary {
	s := Summary{TotalWorkoutDays: len(days)}
	var tons float64
	for _, d := range days {
		s.TotalSetsAll += d.TotalSets
		tons += d.TotalVolumeTons
	}
	s.TotalVolumeTonsAll = roundTo(tons, 2)
	if s.TotalWorkoutDays > 0 {
		s.AvgVolumePerWorkout = roundTo(s.TotalVolumeTonsAll/float64(s.TotalWorkoutDays), 2)
	}
	return s
}

// EstimatedOneRepMax is the Epley estimate weight × (1 + reps/30).
// A zero-rep set estimates nothing.
func EstimatedOneRepMax(weight float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	return weight * (1 + float64(reps)/30)
}

// roundTo rounds half away from zero at the given number of decimals. The
// nudge is relative to the value, so 0.945 (stored just below the midpoint)
// rounds up while 0.9449999999 still rounds down.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	shifted := v * p
	return math.Round(shifted+shifted*1e-12) / p
}
