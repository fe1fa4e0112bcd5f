// README: Read-only aggregate endpoints (overview, per-location stats, time patterns, search).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/location"
	"rideinsight/internal/modules/trip"
)

type InsightsHandler struct {
	store *insights.Store
}

func NewInsightsHandler(store *insights.Store) *InsightsHandler {
	return &InsightsHandler{store: store}
}

// Quick handles GET /api/insights. Optional pickup, dropoff, hour_from,
// hour_to, min_passengers, max_passengers, date_from and date_to (YYYY-MM-DD)
// narrow the snapshot to a subset.
func (h *InsightsHandler) Quick(c *gin.Context) {
	f, ok, err := parseFilter(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	store := h.store
	if ok {
		store = store.Subset(f)
	}
	writeJSON(c, http.StatusOK, store.QuickInsights())
}

func parseFilter(c *gin.Context) (insights.Filter, bool, error) {
	f := insights.Filter{
		PickupLocation:  strings.TrimSpace(c.Query("pickup")),
		DropoffLocation: strings.TrimSpace(c.Query("dropoff")),
	}
	set := f.PickupLocation != "" || f.DropoffLocation != ""

	ints := []struct {
		key string
		dst **int
	}{
		{"hour_from", &f.HourFrom},
		{"hour_to", &f.HourTo},
		{"min_passengers", &f.MinPassengers},
		{"max_passengers", &f.MaxPassengers},
	}
	for _, p := range ints {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, false, fmt.Errorf("invalid %s", p.key)
		}
		*p.dst = &n
		set = true
	}

	dates := []struct {
		key string
		dst **time.Time
	}{
		{"date_from", &f.DateFrom},
		{"date_to", &f.DateTo},
	}
	for _, p := range dates {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return f, false, fmt.Errorf("invalid %s", p.key)
		}
		*p.dst = &d
		set = true
	}
	return f, set, nil
}

// Location handles GET /api/locations/:name. Unknown names get resolver
// suggestions and a 404.
func (h *InsightsHandler) Location(c *gin.Context) {
	if strings.TrimSpace(c.Param("name")) == "" {
		writeError(c, http.StatusBadRequest, "missing location")
		return
	}
	name := trip.CleanLocationName(c.Param("name"))
	stats := h.store.LocationStats(name)
	if stats.Empty() {
		writeJSON(c, http.StatusNotFound, map[string]any{
			"error":       "location not found",
			"suggestions": nonNil(location.Resolve(name, h.store.Vocabulary())),
		})
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"location": name, "stats": stats})
}

// TimePatterns handles GET /api/time-patterns?min_group_size=.
func (h *InsightsHandler) TimePatterns(c *gin.Context) {
	var minSize *int
	if raw := c.Query("min_group_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "invalid min_group_size")
			return
		}
		minSize = &n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	tp := h.store.TimePatterns(ctx, minSize)
	writeJSON(c, http.StatusOK, map[string]any{
		"patterns":  tp,
		"top_hours": tp.TopHours(5),
		"buckets":   tp.Buckets(),
	})
}

// Search handles GET /api/locations/search?q=.
func (h *InsightsHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeError(c, http.StatusBadRequest, "missing q")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"query": q, "matches": nonNil(location.Resolve(q, h.store.Vocabulary()))})
}

func nonNil(v []insights.LocationCount) []insights.LocationCount {
	if v == nil {
		return []insights.LocationCount{}
	}
	return v
}
