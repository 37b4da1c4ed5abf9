package webserver

import (
	"time"

	"github.com/civiclink/console/src/console/types"
)

const (
	statusApproved = "approved"
	statusDeclined = "declined"
	statusBlocked  = "blocked"
	statusPending  = "pending"
)

// statusOrPending is the canonical pending predicate: anything that is not
// exactly one of the three terminal statuses counts as pending. Every stat,
// chart bucket and filter goes through this so the counts cannot diverge.
func statusOrPending(status *string) string {
	if status == nil {
		return statusPending
	}
	switch *status {
	case statusApproved, statusDeclined, statusBlocked:
		return *status
	}
	return statusPending
}

// percentChange returns the integer percentage change from prior to current.
// Both zero means no change; a zero prior with a nonzero current is reported
// as 100.
func percentChange(current, prior int64) int64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - prior) * 100 / prior
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

type monthBucket struct {
	Month    string `json:"month"`
	Approved int64  `json:"approved"`
	Pending  int64  `json:"pending"`
}

// memberSeries buckets members by created_at into the trailing n calendar
// months, oldest first, current month included. Approved rows count as
// approved; everything else that is not declined or blocked counts as pending.
func memberSeries(members []types.Member, now time.Time, months int) []monthBucket {
	series := make([]monthBucket, months)
	starts := make([]time.Time, months)
	for i := 0; i < months; i++ {
		m := monthStart(now).AddDate(0, i-(months-1), 0)
		starts[i] = m
		series[i] = monthBucket{Month: m.Format("Jan 2006")}
	}

	for _, member := range members {
		created := monthStart(member.CreatedAt.In(now.Location()))
		for i := range starts {
			if !created.Equal(starts[i]) {
				continue
			}
			switch statusOrPending(member.Status) {
			case statusApproved:
				series[i].Approved++
			case statusPending:
				series[i].Pending++
			}
			break
		}
	}
	return series
}

// seriesTrend compares the two most recent buckets' approved+pending totals.
func seriesTrend(series []monthBucket) int64 {
	if len(series) < 2 {
		return 0
	}
	current := series[len(series)-1]
	prior := series[len(series)-2]
	return percentChange(current.Approved+current.Pending, prior.Approved+prior.Pending)
}
