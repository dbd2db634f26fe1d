package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ahssan23/medication-tracker/internal/api/respond"
	"github.com/Ahssan23/medication-tracker/internal/auth"
	"github.com/Ahssan23/medication-tracker/internal/model"
)

// MedicineRequest is the create/update payload for a medicine record.
type MedicineRequest struct {
	Name         string `json:"name"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	MedicineTime string `json:"medicineTime"`
}

func (req *MedicineRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "Medicine name is required"
	}
	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return "startDate must be YYYY-MM-DD"
	}
	end, err := time.Parse(model.DateLayout, req.EndDate)
	if err != nil {
		return "endDate must be YYYY-MM-DD"
	}
	if end.Before(start) {
		return "endDate must be on or after startDate"
	}
	if _, err := time.Parse(model.TimeLayout, req.MedicineTime); err != nil {
		return "medicineTime must be HH:MM"
	}
	return ""
}

// ListMedicines returns the authenticated user's medicine list.
// @Summary List medicines
// @Tags medicines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Medicine
// @Router /medicines [get]
func (h *Handler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	meds, err := h.medicines.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("list medicines failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Error fetching medicines")
		return
	}
	respond.WriteJSON(w, http.StatusOK, meds)
}

// AddMedicine creates a medicine record for the authenticated user.
// @Summary Add a medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MedicineRequest true "medicine payload"
// @Success 201 {object} model.Medicine
// @Failure 400 {object} respond.ErrorResponse
// @Router /medicines [post]
func (h *Handler) AddMedicine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())

	var req MedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
		return
	}

	med := &model.Medicine{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MedicineTime: req.MedicineTime,
	}

	if err := h.medicines.Create(r.Context(), med); err != nil {
		slog.Error("create medicine failed", "user_id", userID, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Error saving medicine")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, med)
}

// UpdateMedicine updates a medicine owned by the authenticated user.
// @Summary Update a medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "medicine id"
// @Param request body MedicineRequest true "medicine payload"
// @Success 200 {object} model.Medicine
// @Failure 404 {object} respond.ErrorResponse
// @Router /medicines/{id} [put]
func (h *Handler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	id := chi.URLParam(r, "id")

	existing, ok := h.ownedMedicine(w, r, id, userID)
	if !ok {
		return
	}

	var req MedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
		return
	}

	existing.Name = req.Name
	existing.StartDate = req.StartDate
	existing.EndDate = req.EndDate
	existing.MedicineTime = req.MedicineTime

	if err := h.medicines.Update(r.Context(), existing); err != nil {
		slog.Error("update medicine failed", "medicine_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Error updating medicine")
		return
	}
	respond.WriteJSON(w, http.StatusOK, existing)
}

// DeleteMedicine deletes a medicine owned by the authenticated user.
// @Summary Delete a medicine
// @Tags medicines
// @Produce json
// @Security BearerAuth
// @Param id path string true "medicine id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} respond.ErrorResponse
// @Router /medicines/{id} [delete]
func (h *Handler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	id := chi.URLParam(r, "id")

	if _, ok := h.ownedMedicine(w, r, id, userID); !ok {
		return
	}

	if err := h.medicines.Delete(r.Context(), id); err != nil {
		slog.Error("delete medicine failed", "medicine_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Error deleting medicine")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Medicine deleted successfully"})
}

// ownedMedicine loads a medicine and enforces ownership. A medicine belonging
// to another user is reported as not found rather than forbidden.
func (h *Handler) ownedMedicine(w http.ResponseWriter, r *http.Request, id, userID string) (*model.Medicine, bool) {
	med, err := h.medicines.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Medicine not found")
			return nil, false
		}
		slog.Error("find medicine failed", "medicine_id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Server error")
		return nil, false
	}
	if med.UserID != userID {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Medicine not found")
		return nil, false
	}
	return med, true
}
