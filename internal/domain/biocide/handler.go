package biocide

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pest-field-service/internal/middleware"
	"pest-field-service/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/schedule/events/{eventID}/applications", func(ar chi.Router) {
		ar.Post("/", createApplicationHandler(svc))
		ar.Get("/", listByEventHandler(svc))
	})
	r.Get("/stores/{storeID}/applications", listByStoreHandler(svc))
}

type createApplicationRequest struct {
	Product          string `json:"product"`
	ActiveIngredient string `json:"active_ingredient"`
	Dose             string `json:"dose"`
	DoseUnit         string `json:"dose_unit"`
	TargetPest       string `json:"target_pest"`
	AppliedAt        string `json:"applied_at"` // RFC3339 opcional; default ahora
	Notes            string `json:"notes"`
}

type applicationResponse struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	StoreID          string    `json:"store_id"`
	EmployeeID       string    `json:"employee_id"`
	Product          string    `json:"product"`
	ActiveIngredient string    `json:"active_ingredient,omitempty"`
	Dose             string    `json:"dose,omitempty"`
	DoseUnit         string    `json:"dose_unit,omitempty"`
	TargetPest       string    `json:"target_pest,omitempty"`
	AppliedAt        time.Time `json:"applied_at"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleEmployee {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func createApplicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		var req createApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var appliedAt time.Time
		if strings.TrimSpace(req.AppliedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.AppliedAt)
			if err != nil {
				http.Error(w, "applied_at must be RFC3339", http.StatusBadRequest)
				return
			}
			appliedAt = t
		}

		a, err := svc.Create(r.Context(), CreateInput{
			EventID:          chi.URLParam(r, "eventID"),
			Product:          req.Product,
			ActiveIngredient: req.ActiveIngredient,
			Dose:             req.Dose,
			DoseUnit:         req.DoseUnit,
			TargetPest:       req.TargetPest,
			AppliedAt:        appliedAt,
			Notes:            req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "event not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toApplicationResponse(a))
	}
}

func listByEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		items, err := svc.ListByEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponses(items))
	}
}

func listByStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStaff(w, r) {
			return
		}

		items, err := svc.ListByStore(r.Context(), chi.URLParam(r, "storeID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponses(items))
	}
}

func toApplicationResponses(items []Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

func toApplicationResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:               a.ID,
		EventID:          a.EventID,
		StoreID:          a.StoreID,
		EmployeeID:       a.EmployeeID,
		Product:          a.Product,
		ActiveIngredient: a.ActiveIngredient,
		Dose:             a.Dose,
		DoseUnit:         a.DoseUnit,
		TargetPest:       a.TargetPest,
		AppliedAt:        a.AppliedAt,
		Notes:            a.Notes,
		CreatedAt:        a.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
