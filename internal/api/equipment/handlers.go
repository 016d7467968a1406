// internal/api/equipment/handlers.go
package equipment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/labplanner/internal/api/apiutil"
	"github.com/codr1/labplanner/internal/config"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
)

const equipmentQueryTimeout = 5 * time.Second

var (
	queries     *dbgen.Queries
	defaults    config.DefaultsConfig
	layoutCache *layout.Cache
	queriesOnce sync.Once
)

type equipmentRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category" validate:"required"`
	MaxTests *int64  `json:"max_tests" validate:"omitempty,gte=0"`
	Sides    *int64  `json:"sides" validate:"omitempty,gte=1,lte=64"`
	Status   *string `json:"status"`
}

type overrideRequest struct {
	StartDate string  `json:"start_date" validate:"required,isodate"`
	EndDate   string  `json:"end_date" validate:"required,isodate"`
	MaxTests  *int64  `json:"max_tests" validate:"required,gte=0"`
	Reason    *string `json:"reason"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries, cfg config.DefaultsConfig, cache *layout.Cache) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		defaults = cfg
		layoutCache = cache
	})
}

// GET /api/equipment
func HandleEquipmentList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	equipment, err := q.ListEquipment(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list equipment")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load equipment")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, equipment); err != nil {
		logger.Error().Err(err).Msg("Failed to write equipment response")
	}
}

// POST /api/equipment
func HandleEquipmentCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	req, err := decodeEquipmentRequest(r)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, apiutil.FieldError{Field: "name", Reason: "is required"}.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	created, err := q.CreateEquipment(ctx, dbgen.CreateEquipmentParams{
		Name:     req.Name,
		Category: req.Category,
		MaxTests: valueOr(req.MaxTests, defaults.MaxTests),
		Sides:    valueOr(req.Sides, defaults.Sides),
		Status:   statusOr(req.Status, defaults.EquipmentStatus),
	})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			logger.Warn().Str("equipment", req.Name).Msg("Equipment already exists")
			apiutil.WriteError(w, r, http.StatusConflict, "Equipment with this name already exists")
			return
		}
		logger.Error().Err(err).Str("equipment", req.Name).Msg("Failed to create equipment")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to create equipment")
		return
	}

	invalidateLayout()
	logger.Info().Str("equipment", created.Name).Msg("Created equipment")
	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Str("equipment", created.Name).Msg("Failed to write equipment response")
	}
}

// PUT /api/equipment/{name}
func HandleEquipmentUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	name, err := apiutil.NameFromPath(r, "name")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeEquipmentRequest(r)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != "" && req.Name != name {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Equipment cannot be renamed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	current, err := q.GetEquipment(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Equipment not found")
			return
		}
		logger.Error().Err(err).Str("equipment", name).Msg("Failed to load equipment")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load equipment")
		return
	}

	params := dbgen.UpdateEquipmentParams{
		Category: req.Category,
		MaxTests: valueOr(req.MaxTests, current.MaxTests),
		Sides:    valueOr(req.Sides, current.Sides),
		Status:   statusOr(req.Status, current.Status),
		Name:     name,
	}
	if _, err := q.UpdateEquipment(ctx, params); err != nil {
		logger.Error().Err(err).Str("equipment", name).Msg("Failed to update equipment")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to update equipment")
		return
	}

	invalidateLayout()
	logger.Info().Str("equipment", name).Msg("Updated equipment")
	updated := dbgen.Equipment{
		Name:     name,
		Category: params.Category,
		MaxTests: params.MaxTests,
		Sides:    params.Sides,
		Status:   params.Status,
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Str("equipment", name).Msg("Failed to write equipment response")
	}
}

// DELETE /api/equipment/{name}
func HandleEquipmentDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	name, err := apiutil.NameFromPath(r, "name")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteEquipment(ctx, name)
	if err != nil {
		logger.Error().Err(err).Str("equipment", name).Msg("Failed to delete equipment")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete equipment")
		return
	}
	if deleted == 0 {
		apiutil.WriteError(w, r, http.StatusNotFound, "Equipment not found")
		return
	}

	invalidateLayout()
	logger.Info().Str("equipment", name).Msg("Deleted equipment")
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "name": name}); err != nil {
		logger.Error().Err(err).Str("equipment", name).Msg("Failed to write delete response")
	}
}

// GET /api/equipment/capacity-overrides
func HandleCapacityOverridesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	overrides, err := q.ListCapacityOverrides(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list capacity overrides")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load capacity overrides")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, overrides); err != nil {
		logger.Error().Err(err).Msg("Failed to write capacity overrides response")
	}
}

// POST /api/equipment/{name}/capacity-overrides
func HandleCapacityOverrideCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	name, err := apiutil.NameFromPath(r, "name")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req overrideRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid capacity override payload: %v", err))
		return
	}
	if err := apiutil.ValidateStruct(req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if _, _, err := apiutil.ParseDateRange(req.StartDate, req.EndDate); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	reason := ""
	if req.Reason != nil {
		reason = strings.TrimSpace(*req.Reason)
	}
	created, err := q.CreateCapacityOverride(ctx, dbgen.CreateCapacityOverrideParams{
		EquipmentName: name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MaxTests:      *req.MaxTests,
		Reason:        reason,
	})
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Equipment not found")
			return
		}
		logger.Error().Err(err).Str("equipment", name).Msg("Failed to create capacity override")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to create capacity override")
		return
	}

	logger.Info().
		Str("equipment", name).
		Int64("max_tests", created.MaxTests).
		Str("start_date", created.StartDate).
		Str("end_date", created.EndDate).
		Msg("Added capacity override")
	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Int64("override_id", created.ID).Msg("Failed to write capacity override response")
	}
}

// DELETE /api/equipment/capacity-overrides/{id}
func HandleCapacityOverrideDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	overrideID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), equipmentQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteCapacityOverride(ctx, overrideID)
	if err != nil {
		logger.Error().Err(err).Int64("override_id", overrideID).Msg("Failed to delete capacity override")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete capacity override")
		return
	}
	if deleted == 0 {
		apiutil.WriteError(w, r, http.StatusNotFound, "Capacity override not found")
		return
	}

	logger.Info().Int64("override_id", overrideID).Msg("Deleted capacity override")
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "id": overrideID}); err != nil {
		logger.Error().Err(err).Int64("override_id", overrideID).Msg("Failed to write delete response")
	}
}

func decodeEquipmentRequest(r *http.Request) (equipmentRequest, error) {
	var req equipmentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		return req, fmt.Errorf("invalid equipment payload: %w", err)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := apiutil.ValidateStruct(req); err != nil {
		return req, err
	}
	if limit := defaults.MaxSides; limit > 0 && req.Sides != nil && *req.Sides > limit {
		return req, apiutil.FieldError{Field: "sides", Reason: fmt.Sprintf("must be at most %d", limit)}
	}
	return req, nil
}

func valueOr(value *int64, fallback int64) int64 {
	if value == nil {
		return fallback
	}
	return *value
}

func statusOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func invalidateLayout() {
	if layoutCache != nil {
		layoutCache.Invalidate()
	}
}

func loadQueries() *dbgen.Queries {
	return queries
}
