// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/codr1/labplanner/internal/api/apiutil"
	"github.com/codr1/labplanner/internal/config"
	appdb "github.com/codr1/labplanner/internal/db"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/ics"
	"github.com/codr1/labplanner/internal/layout"
	"github.com/codr1/labplanner/internal/models"
)

const bookingQueryTimeout = 5 * time.Second

var (
	queries     *dbgen.Queries
	store       *appdb.DB
	limits      config.BookingConfig
	layoutCache *layout.Cache
	queriesOnce sync.Once
)

type bookingRequest struct {
	// Echoed back by clients that resend a loaded booking; the path id wins.
	ID           *int64           `json:"id"`
	Description  string           `json:"description" validate:"required"`
	TMANumber    *string          `json:"tma_number"`
	StartDate    string           `json:"start_date" validate:"required,isodate"`
	EndDate      string           `json:"end_date" validate:"required,isodate"`
	EquipmentID  string           `json:"equipment_id" validate:"required"`
	ProjectName  *string          `json:"project_name"`
	ProjectColor *string          `json:"project_color" validate:"omitempty,hexcolor"`
	Note         *string          `json:"note"`
	IsBlocker    bool             `json:"is_blocker"`
	TextStyle    models.TextStyle `json:"text_style"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, cfg config.BookingConfig, cache *layout.Cache) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		store = database
		limits = cfg
		layoutCache = cache
	})
}

// GET /api/bookings
func HandleBookingsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	rows, err := q.ListBookings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list bookings")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load bookings")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, models.BookingsFromDB(rows)); err != nil {
		logger.Error().Err(err).Msg("Failed to write bookings response")
	}
}

// POST /api/bookings
func HandleBookingCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	database := loadDB()
	if database == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	req, err := decodeBookingRequest(r)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid booking payload")
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	var created dbgen.Booking
	err = database.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries
		if err := checkCapacity(ctx, qtx, 0, req); err != nil {
			return err
		}

		created, err = qtx.CreateBooking(ctx, dbgen.CreateBookingParams{
			Description:  req.Description,
			TmaNumber:    apiutil.ToNullString(req.TMANumber),
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			EquipmentID:  req.EquipmentID,
			ProjectName:  apiutil.ToNullString(req.ProjectName),
			ProjectColor: apiutil.ToNullString(req.ProjectColor),
			Note:         apiutil.ToNullString(req.Note),
			IsBlocker:    req.IsBlocker,
			TextStyle:    models.EncodeTextStyle(req.TextStyle),
		})
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to create booking", Err: err}
		}
		return nil
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to create booking")
		return
	}

	invalidateLayout()
	logger.Info().Int64("booking_id", created.ID).Str("equipment_id", created.EquipmentID).Msg("Created booking")
	if err := apiutil.WriteJSON(w, http.StatusCreated, models.BookingFromDB(created)); err != nil {
		logger.Error().Err(err).Int64("booking_id", created.ID).Msg("Failed to write booking response")
	}
}

// PUT /api/bookings/{id}
func HandleBookingUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	database := loadDB()
	if database == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	bookingID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeBookingRequest(r)
	if err != nil {
		logger.Warn().Err(err).Int64("booking_id", bookingID).Msg("Invalid booking payload")
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	var updated dbgen.Booking
	err = database.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries
		if _, err := qtx.GetBooking(ctx, bookingID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apiutil.HandlerError{Status: http.StatusNotFound, Message: "Booking not found", Err: err}
			}
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load booking", Err: err}
		}
		if err := checkCapacity(ctx, qtx, bookingID, req); err != nil {
			return err
		}

		if _, err := qtx.UpdateBooking(ctx, dbgen.UpdateBookingParams{
			Description:  req.Description,
			TmaNumber:    apiutil.ToNullString(req.TMANumber),
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			EquipmentID:  req.EquipmentID,
			ProjectName:  apiutil.ToNullString(req.ProjectName),
			ProjectColor: apiutil.ToNullString(req.ProjectColor),
			Note:         apiutil.ToNullString(req.Note),
			IsBlocker:    req.IsBlocker,
			TextStyle:    models.EncodeTextStyle(req.TextStyle),
			ID:           bookingID,
		}); err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to update booking", Err: err}
		}

		updated, err = qtx.GetBooking(ctx, bookingID)
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load booking", Err: err}
		}
		return nil
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to update booking")
		return
	}

	invalidateLayout()
	logger.Info().Int64("booking_id", bookingID).Msg("Updated booking")
	if err := apiutil.WriteJSON(w, http.StatusOK, models.BookingFromDB(updated)); err != nil {
		logger.Error().Err(err).Int64("booking_id", bookingID).Msg("Failed to write booking response")
	}
}

// DELETE /api/bookings/{id}
func HandleBookingDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	bookingID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteBooking(ctx, bookingID)
	if err != nil {
		logger.Error().Err(err).Int64("booking_id", bookingID).Msg("Failed to delete booking")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete booking")
		return
	}
	if deleted == 0 {
		logger.Warn().Int64("booking_id", bookingID).Msg("Booking not found for deletion")
		apiutil.WriteError(w, r, http.StatusNotFound, "Booking not found")
		return
	}

	invalidateLayout()
	logger.Info().Int64("booking_id", bookingID).Msg("Deleted booking")
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": bookingID}); err != nil {
		logger.Error().Err(err).Int64("booking_id", bookingID).Msg("Failed to write delete response")
	}
}

// GET /api/bookings.ics?equipment=...
func HandleBookingsICS(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	rows, err := q.ListBookings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list bookings for calendar export")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load bookings")
		return
	}

	equipment := r.URL.Query().Get("equipment")
	body, skipped := ics.Export(models.BookingsFromDB(rows), ics.Options{
		CalendarName: "Lab bookings",
		Equipment:    equipment,
	})
	if len(skipped) > 0 {
		logger.Warn().Ints64("booking_ids", skipped).Msg("Skipped bookings with invalid dates in calendar export")
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error().Err(err).Msg("Failed to write calendar export")
	}
}

func decodeBookingRequest(r *http.Request) (bookingRequest, error) {
	var req bookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		return req, fmt.Errorf("invalid booking payload: %w", err)
	}
	req.Description = strings.TrimSpace(req.Description)
	req.EquipmentID = strings.TrimSpace(req.EquipmentID)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)

	if err := apiutil.ValidateStruct(req); err != nil {
		return req, err
	}
	if _, _, err := apiutil.ParseDateRange(req.StartDate, req.EndDate); err != nil {
		return req, err
	}
	if limit := limits.MaxDescriptionLength; limit > 0 && utf8.RuneCountInString(req.Description) > limit {
		return req, apiutil.FieldError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", limit)}
	}
	if limit := limits.MaxNoteLength; limit > 0 && req.Note != nil && utf8.RuneCountInString(*req.Note) > limit {
		return req, apiutil.FieldError{Field: "note", Reason: fmt.Sprintf("must be at most %d characters", limit)}
	}
	return req, nil
}

func checkCapacity(ctx context.Context, q *dbgen.Queries, bookingID int64, req bookingRequest) error {
	err := apiutil.CheckCapacity(ctx, q, apiutil.Candidate{
		ID:          bookingID,
		EquipmentID: req.EquipmentID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsBlocker:   req.IsBlocker,
	})
	if err == nil {
		return nil
	}
	var capErr apiutil.CapacityError
	if errors.As(err, &capErr) {
		return apiutil.HandlerError{Status: http.StatusConflict, Message: "Booking conflict or capacity exceeded", Err: err}
	}
	return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to check capacity", Err: err}
}

func invalidateLayout() {
	if layoutCache != nil {
		layoutCache.Invalidate()
	}
}

func loadQueries() *dbgen.Queries {
	return queries
}

func loadDB() *appdb.DB {
	return store
}
