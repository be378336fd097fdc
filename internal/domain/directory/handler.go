package directory

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
	r.Route("/customers", func(cr chi.Router) {
		cr.Post("/", createCustomerHandler(svc))
		cr.Get("/", listCustomersHandler(svc))
		cr.Get("/{customerID}", getCustomerHandler(svc))
		cr.Get("/{customerID}/stores", listStoresByCustomerHandler(svc))
	})

	r.Route("/stores", func(sr chi.Router) {
		sr.Post("/", createStoreHandler(svc))
		sr.Get("/{storeID}", getStoreHandler(svc))
	})

	r.Route("/employees", func(er chi.Router) {
		er.Post("/", createEmployeeHandler(svc))
		er.Get("/", listEmployeesHandler(svc))
		er.Get("/{employeeID}", getEmployeeHandler(svc))
	})
}

// requireStaff corta si el caller no es admin ni employee.
// El directorio lo administra el personal; las cuentas cliente solo lo
// consultan indirectamente vía grants.
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

type createCustomerRequest struct {
	Title   string `json:"title"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createStoreRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
}

type storeResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type createEmployeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type employeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func createCustomerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		var req createCustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.CreateCustomer(r.Context(), CustomerInput{
			Title:   req.Title,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toCustomerResponse(c))
	}
}

func listCustomersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		items, err := svc.ListCustomers(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]customerResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCustomerResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCustomerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		c, err := svc.CustomerByID(r.Context(), chi.URLParam(r, "customerID"))
		if err != nil {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toCustomerResponse(c))
	}
}

func listStoresByCustomerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		customerID := chi.URLParam(r, "customerID")
		if _, err := svc.CustomerByID(r.Context(), customerID); err != nil {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		items, err := svc.StoresByCustomer(r.Context(), customerID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]storeResponse, 0, len(items))
		for _, st := range items {
			out = append(out, toStoreResponse(st))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		var req createStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.CreateStore(r.Context(), StoreInput{
			CustomerID: req.CustomerID,
			Name:       req.Name,
			Address:    req.Address,
			City:       req.City,
		})
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

		writeJSON(w, http.StatusCreated, toStoreResponse(st))
	}
}

func getStoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		st, err := svc.StoreByID(r.Context(), chi.URLParam(r, "storeID"))
		if err != nil {
			http.Error(w, "store not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toStoreResponse(st))
	}
}

func createEmployeeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}
		// Solo admins dan de alta técnicos.
		if claims.Role != auth.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.CreateEmployee(r.Context(), EmployeeInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toEmployeeResponse(e))
	}
}

func listEmployeesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		items, err := svc.ListEmployees(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]employeeResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEmployeeResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getEmployeeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		e, err := svc.EmployeeByID(r.Context(), chi.URLParam(r, "employeeID"))
		if err != nil {
			http.Error(w, "employee not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toEmployeeResponse(e))
	}
}

func toCustomerResponse(c Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Title:     c.Title,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toStoreResponse(st Store) storeResponse {
	return storeResponse{
		ID:         st.ID,
		CustomerID: st.CustomerID,
		Name:       st.Name,
		Address:    st.Address,
		City:       st.City,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}
}

func toEmployeeResponse(e Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		CreatedAt: e.CreatedAt,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
