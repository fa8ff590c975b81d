package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/dtos"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/services"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

type PoolController struct {
	poolService    *services.PoolService
	reverseMatcher *services.ReverseMatcher
	engagement     *services.EngagementService
	analytics      *services.AnalyticsService
	matchRepo      repositories.MatchRepository
}

func NewPoolController(
	poolService *services.PoolService,
	reverseMatcher *services.ReverseMatcher,
	engagement *services.EngagementService,
	analytics *services.AnalyticsService,
	matchRepo repositories.MatchRepository,
) *PoolController {
	return &PoolController{
		poolService:    poolService,
		reverseMatcher: reverseMatcher,
		engagement:     engagement,
		analytics:      analytics,
		matchRepo:      matchRepo,
	}
}

// ----------------------------------------------------------------
// POST /api/v1/pool/requests
// ----------------------------------------------------------------
func (c *PoolController) SubmitRequestHandler(w http.ResponseWriter, r *http.Request) {
	var input dtos.RentalRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}

	req, err := input.Normalize()
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil, nil)
		return
	}

	matches, err := c.poolService.AddToPool(r.Context(), req)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to admit rental request")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to submit request", nil, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.SubmitRequestResponse{
		Request:        req,
		MatchesCreated: matches,
	})
}

// ----------------------------------------------------------------
// DELETE /api/v1/pool/requests/{id}?status=CANCELLED|MATCHED
// ----------------------------------------------------------------
func (c *PoolController) RemoveRequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	status := models.PoolStatusCancelled
	switch strings.ToUpper(r.URL.Query().Get("status")) {
	case "", string(models.PoolStatusCancelled):
	case string(models.PoolStatusMatched):
		status = models.PoolStatusMatched
	default:
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "status must be CANCELLED or MATCHED", nil, nil)
		return
	}

	if err := c.poolService.RemoveFromPool(r.Context(), requestID, status); err != nil {
		if errors.Is(err, utils.ErrWrongPoolStatus) {
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeWrongPoolStatus, "Request is not in the pool", nil, nil)
			return
		}
		utils.Logger.WithError(err).Error("Failed to remove request from pool")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to remove request", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// ----------------------------------------------------------------
// GET /api/v1/pool/requests/{id}/matches
// ----------------------------------------------------------------
func (c *PoolController) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	matches, err := c.matchRepo.ListByRequestID(r.Context(), requestID)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to list matches")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to list matches", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, matches)
}

// ----------------------------------------------------------------
// POST /api/v1/pool/matches/viewed
// ----------------------------------------------------------------
func (c *PoolController) MarkViewedHandler(w http.ResponseWriter, r *http.Request) {
	orgID, requestID, ok := matchActionIDs(w, r)
	if !ok {
		return
	}

	if err := c.engagement.MarkAsViewedForOrg(r.Context(), orgID, requestID); err != nil {
		utils.Logger.WithError(err).Error("Failed to mark matches viewed")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to mark viewed", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----------------------------------------------------------------
// POST /api/v1/pool/matches/decline
// ----------------------------------------------------------------
func (c *PoolController) DeclineMatchHandler(w http.ResponseWriter, r *http.Request) {
	orgID, requestID, ok := matchActionIDs(w, r)
	if !ok {
		return
	}

	if err := c.engagement.DeclineMatch(r.Context(), orgID, requestID); err != nil {
		utils.Logger.WithError(err).Error("Failed to decline match")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to decline match", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----------------------------------------------------------------
// POST /api/v1/pool/properties/{id}/match
// ----------------------------------------------------------------
func (c *PoolController) ReverseMatchHandler(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	matches, err := c.reverseMatcher.MatchRequestsForNewProperty(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, utils.ErrPropertyNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", nil, nil)
			return
		}
		utils.Logger.WithError(err).Error("Reverse matching failed")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Reverse matching failed", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ReverseMatchResponse{
		PropertyID:     propertyID,
		MatchesCreated: matches,
	})
}

// ----------------------------------------------------------------
// GET /api/v1/pool/stats
// ----------------------------------------------------------------
func (c *PoolController) PoolStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.analytics.GetPoolStats(r.Context())
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to compute pool stats")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to compute pool stats", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func pathUUID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid "+key, nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

func matchActionIDs(w http.ResponseWriter, r *http.Request) (orgID, requestID uuid.UUID, ok bool) {
	var input dtos.MatchActionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return uuid.Nil, uuid.Nil, false
	}
	orgID, requestID, err := input.Parse()
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil, nil)
		return uuid.Nil, uuid.Nil, false
	}
	return orgID, requestID, true
}
