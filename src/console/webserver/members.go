package webserver

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/types"
)

// allowedTransitions is the explicit edge set of the moderation state
// machine. Declined is terminal.
var allowedTransitions = map[string][]string{
	statusPending:  {statusApproved, statusDeclined},
	statusApproved: {statusDeclined, statusBlocked},
	statusBlocked:  {statusApproved},
	statusDeclined: {},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type Members struct {
	db    *gorm.DB
	cache *data.Cache
}

func NewMembers(db *gorm.DB, cache *data.Cache) Members {
	return Members{db: db, cache: cache}
}

// List returns every application with aggregate stats and the trailing
// six-month chart series. Filtering, search and paging happen client-side.
func (m Members) List(c *gin.Context) {
	raw, err := m.cache.GetOrFetch(c, cacheKeyMembers, func() (interface{}, error) {
		var members []types.Member
		if err := m.db.Order("created_at desc").Find(&members).Error; err != nil {
			return nil, err
		}

		counts := map[string]int64{}
		for _, member := range members {
			counts[statusOrPending(member.Status)]++
		}

		series := memberSeries(members, time.Now(), 6)

		return gin.H{
			"stats": gin.H{
				"total":    int64(len(members)),
				"approved": counts[statusApproved],
				"declined": counts[statusDeclined],
				"blocked":  counts[statusBlocked],
				"pending":  counts[statusPending],
				"trend":    seriesTrend(series),
			},
			"chartSeries": series,
			"members":     members,
		}, nil
	})
	if err != nil {
		log.Printf("Failed to list members: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// SetStatus moves an application through the moderation state machine,
// stamping the actor and time into the audit group matching the target and
// nulling the other two groups.
func (m Members) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=approved declined blocked"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if req.Status == statusDeclined && reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a reason is required to decline an application"})
		return
	}

	var member types.Member
	if err := m.db.First(&member, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		log.Printf("Failed to load member %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	from := statusOrPending(member.Status)
	if !transitionAllowed(from, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot move a " + from + " application to " + req.Status})
		return
	}

	actor := c.GetString("admin")
	now := time.Now()

	// One active audit group at a time: stamp the target group, null the rest.
	updates := map[string]interface{}{
		"status":        req.Status,
		"approved_by":   nil,
		"approved_on":   nil,
		"denied_by":     nil,
		"denied_on":     nil,
		"denial_reason": nil,
		"blocked_by":    nil,
		"blocked_on":    nil,
	}
	switch req.Status {
	case statusApproved:
		updates["approved_by"] = actor
		updates["approved_on"] = now
	case statusDeclined:
		updates["denied_by"] = actor
		updates["denied_on"] = now
		updates["denial_reason"] = reason
	case statusBlocked:
		updates["blocked_by"] = actor
		updates["blocked_on"] = now
	}

	if err := m.db.Model(&types.Member{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Printf("Failed to set status %s on member %d: %v", req.Status, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	log.Printf("Admin %s moved member %d from %s to %s", actor, id, from, req.Status)
	m.cache.Invalidate(c, cacheKeyMembers, cacheKeyDashboard)

	if err := m.db.First(&member, "id = ?", id).Error; err != nil {
		log.Printf("Failed to reload member %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, member)
}
