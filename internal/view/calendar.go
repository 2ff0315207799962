package view

import (
	"time"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

// ViewMode selects the calendar layout.
type ViewMode string

const (
	WeekView  ViewMode = "week"
	MonthView ViewMode = "month"
)

// MonthCellCap is the presentation limit on jobs rendered per month
// cell. The overflow count preserves what the cap hides.
const MonthCellCap = 3

// Day is one calendar cell.
type Day struct {
	Date     time.Time    `json:"date"`
	Jobs     []domain.Job `json:"jobs"`
	Overflow int          `json:"overflow"`
	Total    int          `json:"total"`
	InMonth  bool         `json:"inMonth"`
}

// Calendar is the bucketed grid for a cursor date and view mode.
type Calendar struct {
	Mode   ViewMode `json:"mode"`
	Cursor string   `json:"cursor"`
	Weeks  [][]Day  `json:"weeks"`
}

// Bucket distributes jobs into calendar cells around the cursor. Week
// mode yields one row of 7 days; month mode yields every Monday-start
// week touching the cursor's month, with the per-cell cap applied.
// A job lands in a cell only on an exact local-day match of its
// scheduled date.
func Bucket(jobs []domain.Job, cursor time.Time, mode ViewMode) Calendar {
	cal := Calendar{Mode: mode, Cursor: cursor.Format("2006-01-02")}

	switch mode {
	case MonthView:
		first := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location())
		last := first.AddDate(0, 1, -1)
		day := startOfWeek(first)
		for !day.After(startOfWeek(last)) {
			week := make([]Day, 0, 7)
			for i := 0; i < 7; i++ {
				cell := buildDay(jobs, day, MonthCellCap)
				cell.InMonth = day.Month() == cursor.Month()
				week = append(week, cell)
				day = day.AddDate(0, 0, 1)
			}
			cal.Weeks = append(cal.Weeks, week)
		}
	default:
		day := startOfWeek(cursor)
		week := make([]Day, 0, 7)
		for i := 0; i < 7; i++ {
			cell := buildDay(jobs, day, 0)
			cell.InMonth = true
			week = append(week, cell)
			day = day.AddDate(0, 0, 1)
		}
		cal.Weeks = [][]Day{week}
	}

	return cal
}

func buildDay(jobs []domain.Job, date time.Time, limit int) Day {
	cell := Day{Date: date}
	for _, j := range jobs {
		if j.ScheduledDate == nil || !sameLocalDay(*j.ScheduledDate, date) {
			continue
		}
		cell.Total++
		if limit == 0 || len(cell.Jobs) < limit {
			cell.Jobs = append(cell.Jobs, j)
		}
	}
	if limit > 0 && cell.Total > limit {
		cell.Overflow = cell.Total - limit
	}
	return cell
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// startOfWeek returns the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// Step moves the cursor one unit in the given direction (+1 or -1)
// according to the view mode.
func Step(cursor time.Time, mode ViewMode, direction int) time.Time {
	if mode == MonthView {
		return cursor.AddDate(0, direction, 0)
	}
	return cursor.AddDate(0, 0, 7*direction)
}
