package feedback

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
	r.Route("/stores/{storeID}/feedback", func(fr chi.Router) {
		fr.Post("/", createFeedbackHandler(svc))
		fr.Get("/", listFeedbackHandler(svc))
	})
	r.Post("/feedback/{feedbackID}/resolve", resolveFeedbackHandler(svc))
}

type createFeedbackRequest struct {
	Kind    string `json:"kind" enums:"complaint,suggestion"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type feedbackResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	OwnerID   string    `json:"owner_id"`
	Kind      Kind      `json:"kind"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func createFeedbackHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		// Solo cuentas externas presentan feedback.
		if claims.Role != auth.RoleCustomer {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createFeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			StoreID: chi.URLParam(r, "storeID"),
			OwnerID: claims.UserID,
			Kind:    Kind(strings.ToLower(strings.TrimSpace(req.Kind))),
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toFeedbackResponse(e))
	}
}

func listFeedbackHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		storeID := chi.URLParam(r, "storeID")

		var (
			items []Entry
			err   error
		)
		if claims.Role == auth.RoleCustomer {
			items, err = svc.ListByStoreForOwner(r.Context(), claims.UserID, storeID)
		} else {
			items, err = svc.ListByStore(r.Context(), storeID)
		}
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]feedbackResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toFeedbackResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func resolveFeedbackHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleEmployee {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		e, err := svc.Resolve(r.Context(), chi.URLParam(r, "feedbackID"))
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toFeedbackResponse(e))
	}
}

func toFeedbackResponse(e Entry) feedbackResponse {
	return feedbackResponse{
		ID:        e.ID,
		StoreID:   e.StoreID,
		OwnerID:   e.OwnerID,
		Kind:      e.Kind,
		Subject:   e.Subject,
		Message:   e.Message,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
