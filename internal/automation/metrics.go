package automation

import (
	"math"
	"time"

	"stockverse/internal/office/model"
)

const (
	MetricOverdueTasks      = "overdue_tasks"
	MetricCompletionRate    = "completion_rate"
	MetricHeadcount         = "headcount"
	MetricUpcomingBirthdays = "upcoming_birthdays"

	birthdayWindowDays = 14
)

// Snapshot são os indicadores da empresa num instante.
type Snapshot struct {
	OverdueTasks      int `json:"overdue_tasks"`
	CompletionRate    int `json:"completion_rate"`
	Headcount         int `json:"headcount"`
	UpcomingBirthdays int `json:"upcoming_birthdays"`
}

// Metric busca o indicador pelo id; ok false para ids desconhecidos.
func (s Snapshot) Metric(id string) (float64, bool) {
	switch id {
	case MetricOverdueTasks:
		return float64(s.OverdueTasks), true
	case MetricCompletionRate:
		return float64(s.CompletionRate), true
	case MetricHeadcount:
		return float64(s.Headcount), true
	case MetricUpcomingBirthdays:
		return float64(s.UpcomingBirthdays), true
	default:
		return 0, false
	}
}

func ComputeSnapshot(tasks []model.Task, records []model.PersonalRecord, now time.Time) Snapshot {
	var snap Snapshot
	done := 0
	for _, t := range tasks {
		if t.Completed() {
			done++
		}
		if t.Overdue(now) {
			snap.OverdueTasks++
		}
	}
	if len(tasks) > 0 {
		snap.CompletionRate = int(math.Round(100 * float64(done) / float64(len(tasks))))
	}
	snap.Headcount = len(records)
	for _, r := range records {
		if r.BirthDate == nil {
			continue
		}
		if d := daysUntil(nextAnniversary(*r.BirthDate, now), now); d >= 0 && d <= birthdayWindowDays {
			snap.UpcomingBirthdays++
		}
	}
	return snap
}

// day trunca para a meia-noite UTC do dia civil.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysUntil conta dias civis (UTC) de now até target; negativo no passado.
func daysUntil(target, now time.Time) int {
	return int(day(target).Sub(day(now)).Hours() / 24)
}

// nextAnniversary leva a data para o ano corrente ou, se já passou, para o
// próximo.
func nextAnniversary(date, now time.Time) time.Time {
	today := day(now)
	d := date.UTC()
	next := time.Date(today.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next
}
