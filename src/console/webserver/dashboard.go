package webserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/types"
)

type Dashboard struct {
	db    *gorm.DB
	cache *data.Cache
}

func NewDashboard(db *gorm.DB, cache *data.Cache) Dashboard {
	return Dashboard{db: db, cache: cache}
}

// Get aggregates counts and trends across every store. Pure read; cached for
// the configured TTL and invalidated by any mutation.
func (d Dashboard) Get(c *gin.Context) {
	raw, err := d.cache.GetOrFetch(c, cacheKeyDashboard, func() (interface{}, error) {
		now := time.Now()
		thisMonth := monthStart(now)
		lastMonth := thisMonth.AddDate(0, -1, 0)

		var members []types.Member
		if err := d.db.Find(&members).Error; err != nil {
			return nil, err
		}
		series6 := memberSeries(members, now, 6)
		series3 := series6[3:]

		counts := map[string]int64{}
		for _, member := range members {
			counts[statusOrPending(member.Status)]++
		}

		var blogsNow, blogsPrior int64
		d.db.Model(&types.BlogPost{}).Where("created_at >= ?", thisMonth).Count(&blogsNow)
		d.db.Model(&types.BlogPost{}).Where("created_at >= ? AND created_at < ?", lastMonth, thisMonth).Count(&blogsPrior)

		var approvalsNow, approvalsPrior int64
		d.db.Model(&types.Member{}).Where("approved_on >= ?", thisMonth).Count(&approvalsNow)
		d.db.Model(&types.Member{}).Where("approved_on >= ? AND approved_on < ?", lastMonth, thisMonth).Count(&approvalsPrior)

		var eventsNow, eventsPrior int64
		d.db.Model(&types.Event{}).Where("event_date >= ?", thisMonth).Count(&eventsNow)
		d.db.Model(&types.Event{}).Where("event_date >= ? AND event_date < ?", lastMonth, thisMonth).Count(&eventsPrior)

		var upcoming []types.Event
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if err := d.db.Where("event_date >= ? AND event_date < ?", today, today.AddDate(0, 0, 30)).
			Order("event_date asc").Find(&upcoming).Error; err != nil {
			return nil, err
		}

		return gin.H{
			"siteName":      data.SiteName(),
			"publicBaseUrl": data.PublicBaseURL(),
			"members": gin.H{
				"total":    int64(len(members)),
				"approved": counts[statusApproved],
				"declined": counts[statusDeclined],
				"blocked":  counts[statusBlocked],
				"pending":  counts[statusPending],
				"series3":  series3,
				"series6":  series6,
				"trend":    seriesTrend(series6),
			},
			"blogs": gin.H{
				"month":  blogsNow,
				"change": percentChange(blogsNow, blogsPrior),
			},
			"approvals": gin.H{
				"month":  approvalsNow,
				"change": percentChange(approvalsNow, approvalsPrior),
			},
			"events": gin.H{
				"month":  eventsNow,
				"change": percentChange(eventsNow, eventsPrior),
			},
			"upcomingEvents": upcoming,
		}, nil
	})
	if err != nil {
		log.Printf("Failed to build dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
