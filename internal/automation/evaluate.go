package automation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"stockverse/internal/office/model"
)

var errIncompleteTrigger = errors.New("trigger without payload")

// Outcome é o resultado da avaliação de uma automação.
type Outcome struct {
	Triggered bool
	Message   string
	Matches   int
}

// Evaluate avalia o gatilho contra o snapshot e as fichas de pessoal. Métrica
// desconhecida não dispara e não é erro.
func Evaluate(tr Trigger, snap Snapshot, records []model.PersonalRecord, now time.Time) (Outcome, error) {
	switch tr.Type {
	case TriggerKPI:
		if tr.KPI == nil {
			return Outcome{}, errIncompleteTrigger
		}
		return evaluateKPI(*tr.KPI, snap)
	case TriggerDate:
		if tr.Date == nil {
			return Outcome{}, errIncompleteTrigger
		}
		return evaluateDate(*tr.Date, records, now)
	default:
		return Outcome{}, fmt.Errorf("unknown trigger type %q", tr.Type)
	}
}

func evaluateKPI(k KPITrigger, snap Snapshot) (Outcome, error) {
	value, ok := snap.Metric(k.MetricID)
	if !ok {
		return Outcome{}, nil
	}
	var hit bool
	switch k.Comparator {
	case Above:
		hit = value > k.Threshold
	case Below:
		hit = value < k.Threshold
	case Equals:
		hit = value == k.Threshold
	default:
		return Outcome{}, fmt.Errorf("unknown comparator %q", k.Comparator)
	}
	if !hit {
		return Outcome{}, nil
	}
	return Outcome{
		Triggered: true,
		Message:   fmt.Sprintf("%s is %s (%s %s)", k.MetricID, formatNumber(value), k.Comparator, formatNumber(k.Threshold)),
	}, nil
}

func evaluateDate(d DateTrigger, records []model.PersonalRecord, now time.Time) (Outcome, error) {
	if d.OffsetDays < 0 {
		return Outcome{}, fmt.Errorf("negative offset %d", d.OffsetDays)
	}
	matches := 0
	for _, r := range records {
		var occurrence time.Time
		switch d.Field {
		case FieldBirthDate:
			if r.BirthDate == nil {
				continue
			}
			occurrence = nextAnniversary(*r.BirthDate, now)
		case FieldStartDate:
			if r.StartDate == nil {
				continue
			}
			occurrence = *r.StartDate
		default:
			return Outcome{}, fmt.Errorf("unknown date field %q", d.Field)
		}
		if n := daysUntil(occurrence, now); n >= 0 && n <= d.OffsetDays {
			matches++
		}
	}
	if matches == 0 {
		return Outcome{}, nil
	}
	return Outcome{
		Triggered: true,
		Matches:   matches,
		Message:   fmt.Sprintf("%d team member(s) with %s in the next %d day(s)", matches, d.Field, d.OffsetDays),
	}, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
