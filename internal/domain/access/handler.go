package access

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"pest-field-service/internal/middleware"
	"pest-field-service/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/stores/{storeID}/grants", listGrantsForStoreHandler(svc))
	r.Get("/customers/{customerID}/grants", listGrantsForCustomerHandler(svc))
	r.Get("/principals/{principalType}/{principalID}/grants", listGrantsForPrincipalHandler(svc))

	r.Route("/grants", func(gr chi.Router) {
		gr.Post("/", createGrantHandler(svc))
		gr.Delete("/{grantID}", revokeGrantHandler(svc))
	})

	// Cuenta externa: sus tiendas accesibles.
	r.Get("/me/stores", listMyStoresHandler(svc))
}

type createGrantRequest struct {
	PrincipalType string `json:"principal_type"`
	PrincipalID   string `json:"principal_id"`
	ScopeType     string `json:"scope_type"`
	CustomerID    string `json:"customer_id,omitempty"`
	StoreID       string `json:"store_id,omitempty"`
	OwnerID       string `json:"owner_id,omitempty"`
}

type principalSummaryResponse struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type customerRefResponse struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

type grantResponse struct {
	ID            string    `json:"id"`
	PrincipalType string    `json:"principal_type"`
	PrincipalID   string    `json:"principal_id"`
	ScopeType     string    `json:"scope_type"`
	CustomerID    string    `json:"customer_id,omitempty"`
	StoreID       string    `json:"store_id,omitempty"`
	OwnerID       string    `json:"owner_id,omitempty"`
	ScopeLabel    string    `json:"scope_label"`
	CreatedAt     time.Time `json:"created_at"`

	Principal *principalSummaryResponse `json:"principal,omitempty"`
	Customer  *customerRefResponse      `json:"customer,omitempty"`
}

type principalGrantsResponse struct {
	PrincipalType string                    `json:"principal_type"`
	PrincipalID   string                    `json:"principal_id"`
	Principal     *principalSummaryResponse `json:"principal,omitempty"`
	Grants        []grantResponse           `json:"grants"`
}

func requireStaff(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleEmployee {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}

func listGrantsForStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		items, err := svc.ListForStore(r.Context(), chi.URLParam(r, "storeID"))
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "store not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toGrantResponses(items))
	}
}

func listGrantsForCustomerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		items, err := svc.ListForCustomer(r.Context(), chi.URLParam(r, "customerID"))
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "customer not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toGrantResponses(items))
	}
}

func listGrantsForPrincipalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		ptype := PrincipalType(strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "principalType"))))
		out, err := svc.ListForPrincipal(r.Context(), ptype, chi.URLParam(r, "principalID"))
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := principalGrantsResponse{
			PrincipalType: string(out.PrincipalType),
			PrincipalID:   out.PrincipalID,
			Principal:     toPrincipalResponse(out.Principal),
			Grants:        toGrantResponses(out.Grants),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		var req createGrantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Create(r.Context(), CreateInput{
			PrincipalType: PrincipalType(strings.ToUpper(strings.TrimSpace(req.PrincipalType))),
			PrincipalID:   req.PrincipalID,
			ScopeType:     ScopeType(strings.ToUpper(strings.TrimSpace(req.ScopeType))),
			CustomerID:    req.CustomerID,
			StoreID:       req.StoreID,
			OwnerID:       req.OwnerID,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "referenced customer/store not found", http.StatusNotFound)
			case ErrConflict:
				http.Error(w, "grant already exists", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toGrantResponse(g))
	}
}

func revokeGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		if err := svc.Revoke(r.Context(), chi.URLParam(r, "grantID")); err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "grant not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listMyStoresHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != auth.RoleCustomer {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ids, err := svc.AccessibleStoreIDs(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]string, 0, len(ids))
		for id := range ids {
			out = append(out, id)
		}
		sort.Strings(out) // respuesta estable

		writeJSON(w, http.StatusOK, map[string]any{"store_ids": out})
	}
}

func toGrantResponses(items []EnrichedGrant) []grantResponse {
	out := make([]grantResponse, 0, len(items))
	for _, g := range items {
		out = append(out, toGrantResponse(g))
	}
	return out
}

func toGrantResponse(g EnrichedGrant) grantResponse {
	resp := grantResponse{
		ID:            g.ID,
		PrincipalType: string(g.PrincipalType),
		PrincipalID:   g.PrincipalID,
		ScopeType:     string(g.ScopeType),
		CustomerID:    g.CustomerID,
		StoreID:       g.StoreID,
		OwnerID:       g.OwnerID,
		ScopeLabel:    g.ScopeLabel,
		CreatedAt:     g.CreatedAt,
		Principal:     toPrincipalResponse(g.Principal),
	}
	if g.Customer != nil {
		resp.Customer = &customerRefResponse{ID: g.Customer.ID, Title: g.Customer.Title}
	}
	return resp
}

func toPrincipalResponse(p *PrincipalSummary) *principalSummaryResponse {
	if p == nil {
		return nil
	}
	return &principalSummaryResponse{Name: p.Name, Email: p.Email, Role: p.Role}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
