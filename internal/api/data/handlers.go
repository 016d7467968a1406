// internal/api/data/handlers.go
package data

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/labplanner/internal/api/apiutil"
	"github.com/codr1/labplanner/internal/config"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
	"github.com/codr1/labplanner/internal/models"
)

const dataQueryTimeout = 5 * time.Second

var (
	queries     *dbgen.Queries
	calendar    config.CalendarConfig
	layoutCache *layout.Cache
	queriesOnce sync.Once
)

type orphanResponse struct {
	BookingID int64  `json:"booking_id"`
	RowID     string `json:"row_id"`
}

type layoutResponse struct {
	Lanes      map[string]int   `json:"lanes"`
	MaxLanes   map[string]int   `json:"max_lanes"`
	RowHeights map[string]int   `json:"row_heights"`
	Orphans    []orphanResponse `json:"orphans"`
}

type dataResponse struct {
	Equipment []dbgen.Equipment `json:"equipment"`
	Bookings  []models.Booking  `json:"bookings"`
	Projects  []dbgen.Project   `json:"projects"`
	Rows      []models.Row      `json:"rows"`
	Layout    layoutResponse    `json:"layout"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries, cfg config.CalendarConfig, cache *layout.Cache) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		calendar = cfg
		layoutCache = cache
		if layoutCache == nil {
			layoutCache = layout.NewCache()
		}
	})
}

// GET /api/data
func HandleData(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dataQueryTimeout)
	defer cancel()

	equipment, err := q.ListEquipment(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list equipment")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load equipment")
		return
	}
	bookingRows, err := q.ListBookings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list bookings")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load bookings")
		return
	}
	projects, err := q.ListProjects(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list projects")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load projects")
		return
	}

	rows := models.ExpandRows(equipment)
	result, err := layoutCache.Get(models.LayoutInput(bookingRows), models.RowKeysOf(rows))
	if err != nil {
		var dateErr *layout.DateError
		if errors.As(err, &dateErr) {
			logger.Error().Err(err).Int64("booking_id", dateErr.BookingID).Msg("Stored booking has invalid dates")
		} else {
			logger.Error().Err(err).Msg("Failed to compute layout")
		}
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to compute layout: "+err.Error())
		return
	}
	if len(result.Orphans) > 0 {
		ids := make([]int64, 0, len(result.Orphans))
		for _, o := range result.Orphans {
			ids = append(ids, o.BookingID)
		}
		logger.Warn().Ints64("booking_ids", ids).Msg("Bookings reference rows that do not exist")
	}

	resp := dataResponse{
		Equipment: equipment,
		Bookings:  models.BookingsFromDB(bookingRows),
		Projects:  projects,
		Rows:      rows,
		Layout:    buildLayoutResponse(result, rows),
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write data response")
	}
}

func buildLayoutResponse(result layout.Result, rows []models.Row) layoutResponse {
	resp := layoutResponse{
		Lanes:      make(map[string]int, len(result.Lanes)),
		MaxLanes:   make(map[string]int, len(rows)),
		RowHeights: make(map[string]int, len(rows)),
		Orphans:    make([]orphanResponse, 0, len(result.Orphans)),
	}
	for id, lane := range result.Lanes {
		resp.Lanes[strconv.FormatInt(id, 10)] = lane
	}
	for _, row := range rows {
		resp.MaxLanes[row.ID] = result.MaxLanes[row.Key]
		resp.RowHeights[row.ID] = result.RowHeight(row.Key, calendar.BaseRowHeight, calendar.LaneHeight)
	}
	for _, o := range result.Orphans {
		resp.Orphans = append(resp.Orphans, orphanResponse{BookingID: o.BookingID, RowID: o.Resource.String()})
	}
	return resp
}

func loadQueries() *dbgen.Queries {
	return queries
}
