// internal/api/projects/handlers.go
package projects

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
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/models"
)

const projectQueryTimeout = 5 * time.Second

var (
	queries          *dbgen.Queries
	defaultTextColor string
	queriesOnce      sync.Once
)

type projectRequest struct {
	Name      string  `json:"name"`
	Color     string  `json:"color" validate:"required,hexcolor"`
	TextColor *string `json:"text_color" validate:"omitempty,hexcolor"`
	Active    *bool   `json:"active"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries, textColor string) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		defaultTextColor = textColor
	})
}

// GET /api/projects
func HandleProjectsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projectQueryTimeout)
	defer cancel()

	projects, err := q.ListProjects(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list projects")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load projects")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, projects); err != nil {
		logger.Error().Err(err).Msg("Failed to write projects response")
	}
}

// POST /api/projects
func HandleProjectCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	req, err := decodeProjectRequest(r)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		apiutil.WriteError(w, r, http.StatusBadRequest, apiutil.FieldError{Field: "name", Reason: "is required"}.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projectQueryTimeout)
	defer cancel()

	params := dbgen.CreateProjectParams{
		Name:      req.Name,
		Color:     req.Color,
		TextColor: textColorOr(req.TextColor, req.Color),
		Active:    req.Active == nil || *req.Active,
	}
	if err := models.ValidateTextContrast(params.TextColor, params.Color); err != nil {
		logger.Warn().Err(err).Str("project", req.Name).Msg("Project colors have low contrast")
	}

	created, err := q.CreateProject(ctx, params)
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			apiutil.WriteError(w, r, http.StatusConflict, "Project with this name already exists")
			return
		}
		logger.Error().Err(err).Str("project", req.Name).Msg("Failed to create project")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to create project")
		return
	}

	logger.Info().Str("project", created.Name).Msg("Created project")
	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Str("project", created.Name).Msg("Failed to write project response")
	}
}

// PUT /api/projects/{name}
func HandleProjectUpdate(w http.ResponseWriter, r *http.Request) {
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

	req, err := decodeProjectRequest(r)
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != "" && req.Name != name {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Project cannot be renamed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), projectQueryTimeout)
	defer cancel()

	current, err := q.GetProject(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, http.StatusNotFound, "Project not found")
			return
		}
		logger.Error().Err(err).Str("project", name).Msg("Failed to load project")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to load project")
		return
	}

	params := dbgen.UpdateProjectParams{
		Color:     req.Color,
		TextColor: current.TextColor,
		Active:    current.Active,
		Name:      name,
	}
	if req.TextColor != nil {
		params.TextColor = *req.TextColor
	}
	if req.Active != nil {
		params.Active = *req.Active
	}

	if _, err := q.UpdateProject(ctx, params); err != nil {
		logger.Error().Err(err).Str("project", name).Msg("Failed to update project")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to update project")
		return
	}

	logger.Info().Str("project", name).Msg("Updated project")
	updated := dbgen.Project{Name: name, Color: params.Color, TextColor: params.TextColor, Active: params.Active}
	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Str("project", name).Msg("Failed to write project response")
	}
}

// DELETE /api/projects/{name}
func HandleProjectDelete(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), projectQueryTimeout)
	defer cancel()

	deleted, err := q.DeleteProject(ctx, name)
	if err != nil {
		logger.Error().Err(err).Str("project", name).Msg("Failed to delete project")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	if deleted == 0 {
		apiutil.WriteError(w, r, http.StatusNotFound, "Project not found")
		return
	}

	logger.Info().Str("project", name).Msg("Deleted project")
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "name": name}); err != nil {
		logger.Error().Err(err).Str("project", name).Msg("Failed to write delete response")
	}
}

func decodeProjectRequest(r *http.Request) (projectRequest, error) {
	var req projectRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		return req, fmt.Errorf("invalid project payload: %w", err)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Color = strings.TrimSpace(req.Color)
	if err := apiutil.ValidateStruct(req); err != nil {
		return req, err
	}
	return req, nil
}

// textColorOr falls back to the configured default, or to whichever of black
// and white reads best on color when no default is configured.
func textColorOr(value *string, color string) string {
	if value != nil && *value != "" {
		return *value
	}
	if defaultTextColor != "" {
		return defaultTextColor
	}
	readable, err := models.ReadableTextColor(color)
	if err != nil {
		return "#ffffff"
	}
	return readable
}

func loadQueries() *dbgen.Queries {
	return queries
}
