// Package dashboard computes the KPI cards and the weekly change trend shown
// on the landing page.
package dashboard

import "time"

type Summary struct {
	ChangeReportsThisMonth int `json:"changeReportsThisMonth"`
	InspectionsInProgress  int `json:"inspectionsInProgress"`
	ChangeSchedules        int `json:"changeSchedules"`
	PatchSchedules         int `json:"patchSchedules"`
}

type Card struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// Cards lists the summary in display order.
func (s Summary) Cards() []Card {
	return []Card{
		{Title: "Change Reports This Month", Value: s.ChangeReportsThisMonth},
		{Title: "Inspection (In Progress)", Value: s.InspectionsInProgress},
		{Title: "Change Schedule", Value: s.ChangeSchedules},
		{Title: "Patch Schedule", Value: s.PatchSchedules},
	}
}

type TrendPoint struct {
	Day         string `json:"day"`
	Date        string `json:"date"`
	Submitted   int    `json:"submitted"`
	Approved    int    `json:"approved"`
	Implemented int    `json:"implemented"`
}

type WeeklyTrend struct {
	WeekStart string       `json:"weekStart"`
	Points    []TrendPoint `json:"points"`
}

// StatusEvent is one row of the change request timeline.
type StatusEvent struct {
	Status     string    `db:"status"`
	OccurredAt time.Time `db:"occurred_at"`
}

// DayNames are the Indonesian weekday labels, Monday first.
var DayNames = [7]string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

const dateLayout = "2006-01-02"

// MondayOf returns midnight UTC of the Monday in t's week.
func MondayOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Bucket counts events into the seven days starting at weekStart.
func Bucket(weekStart time.Time, evts []StatusEvent) []TrendPoint {
	points := make([]TrendPoint, 7)
	for i := range points {
		points[i] = TrendPoint{Day: DayNames[i], Date: weekStart.AddDate(0, 0, i).Format(dateLayout)}
	}

	for _, e := range evts {
		idx := int(e.OccurredAt.UTC().Sub(weekStart) / (24 * time.Hour))
		if idx < 0 || idx > 6 {
			continue
		}
		switch e.Status {
		case "Submitted":
			points[idx].Submitted++
		case "Approved":
			points[idx].Approved++
		case "Implementing", "Completed":
			points[idx].Implemented++
		}
	}
	return points
}
