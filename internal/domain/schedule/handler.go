package schedule

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pest-field-service/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/schedule/events", func(er chi.Router) {
		er.Get("/", queryEventsHandler(svc))
		er.Post("/", createEventHandler(svc))
		er.Get("/{eventID}", getEventHandler(svc))
		er.Patch("/{eventID}", updateEventHandler(svc))
	})
}

// createEventRequest es el cuerpo para agendar una visita.
type createEventRequest struct {
	Title      string `json:"title"`
	Notes      string `json:"notes"`
	EmployeeID string `json:"employee_id"`
	StoreID    string `json:"store_id"`
	Start      string `json:"start"` // RFC3339, minuto en {0,15,30,45}
	End        string `json:"end"`   // RFC3339, minuto en {0,15,30,45}
	Status     string `json:"status,omitempty" enums:"PENDING,PLANNED,COMPLETED,FAILED,CANCELLED,POSTPONED"`
}

type updateEventRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Title      *string `json:"title"`
	Notes      *string `json:"notes"`
	EmployeeID *string `json:"employee_id"`
	StoreID    *string `json:"store_id"`
	Start      *string `json:"start"` // RFC3339
	End        *string `json:"end"`   // RFC3339
	Status     *string `json:"status"`
}

// eventResponse representa una visita agendada devuelta por la API.
type eventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Notes         string    `json:"notes"`
	EmployeeID    string    `json:"employee_id"`
	StoreID       string    `json:"store_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        Status    `json:"status"`
	PlannedByID   string    `json:"planned_by_id"`
	PlannedByRole string    `json:"planned_by_role"`
	PlannedByName string    `json:"planned_by_name,omitempty"`
	PlannedAt     time.Time `json:"planned_at"`
}

type eventDetailResponse struct {
	eventResponse

	EmployeeName string `json:"employee_name,omitempty"`
	StoreName    string `json:"store_name,omitempty"`
	CustomerID   string `json:"customer_id,omitempty"`
	PlannerName  string `json:"planner_name"`
}

func requireActor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Actor{}, false
	}
	return Actor{
		ID:          claims.UserID,
		Role:        string(claims.Role),
		DisplayName: claims.DisplayName,
	}, true
}

// queryEventsHandler godoc
// @Summary Listar visitas agendadas
// @Description Devuelve las visitas cuyo intervalo intersecta [from, to), con filtros opcionales por técnico y tienda. Orden por inicio ascendente.
// @Tags schedule
// @Produce json
// @Param from query string true "Inicio de la ventana (RFC3339)"
// @Param to query string true "Fin de la ventana (RFC3339), debe ser posterior a from"
// @Param employee_id query string false "Filtrar por técnico"
// @Param store_id query string false "Filtrar por tienda"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "ventana inválida"
// @Failure 401 {string} string "unauthorized"
// @Router /schedule/events [get]
func queryEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireActor(w, r); !ok {
			return
		}

		from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "from must be RFC3339", http.StatusBadRequest)
			return
		}
		to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "to must be RFC3339", http.StatusBadRequest)
			return
		}

		items, err := svc.Query(r.Context(), from, to,
			r.URL.Query().Get("employee_id"),
			r.URL.Query().Get("store_id"),
		)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createEventHandler godoc
// @Summary Agendar una visita
// @Description Crea una visita para un técnico sobre una tienda. Solo admins. start/end deben caer en la grilla de 15 minutos y el técnico no puede tener otra visita que se solape (los bordes pueden tocarse).
// @Tags schedule
// @Accept json
// @Produce json
// @Param payload body createEventRequest true "Datos de la visita; start/end en RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / intervalo fuera de grilla / status inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "employee/store not found"
// @Failure 409 {string} string "employee already booked"
// @Router /schedule/events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			http.Error(w, "start must be RFC3339", http.StatusBadRequest)
			return
		}
		end, err := time.Parse(time.RFC3339, req.End)
		if err != nil {
			http.Error(w, "end must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			Title:      req.Title,
			Notes:      req.Notes,
			EmployeeID: req.EmployeeID,
			StoreID:    req.StoreID,
			Start:      start,
			End:        end,
			Status:     Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		}, actor)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// updateEventHandler godoc
// @Summary Modificar una visita
// @Description PATCH parcial. Un admin puede tocar cualquier campo (re-chequea solape con los valores efectivos); un técnico solo puede cambiar status.
// @Tags schedule
// @Accept json
// @Produce json
// @Param eventID path string true "ID de la visita"
// @Param payload body updateEventRequest true "Campos a modificar"
// @Success 200 {object} eventResponse
// @Failure 400 {string} string "patch inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "técnico tocando campos que no son status"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "employee already booked"
// @Router /schedule/events/{eventID} [patch]
func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req updateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		patch := UpdateInput{
			Title:      req.Title,
			Notes:      req.Notes,
			EmployeeID: req.EmployeeID,
			StoreID:    req.StoreID,
		}

		if req.Start != nil {
			t, err := time.Parse(time.RFC3339, *req.Start)
			if err != nil {
				http.Error(w, "start must be RFC3339", http.StatusBadRequest)
				return
			}
			patch.Start = &t
		}
		if req.End != nil {
			t, err := time.Parse(time.RFC3339, *req.End)
			if err != nil {
				http.Error(w, "end must be RFC3339", http.StatusBadRequest)
				return
			}
			patch.End = &t
		}
		if req.Status != nil {
			st := Status(strings.ToUpper(strings.TrimSpace(*req.Status)))
			patch.Status = &st
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), patch, actor)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// getEventHandler godoc
// @Summary Detalle de una visita
// @Description Devuelve la visita enriquecida con nombres de técnico, tienda y planificador.
// @Tags schedule
// @Produce json
// @Param eventID path string true "ID de la visita"
// @Success 200 {object} eventDetailResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "event not found"
// @Router /schedule/events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireActor(w, r); !ok {
			return
		}

		d, err := svc.Get(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, eventDetailResponse{
			eventResponse: toEventResponse(d.Event),
			EmployeeName:  d.EmployeeName,
			StoreName:     d.StoreName,
			CustomerID:    d.CustomerID,
			PlannerName:   d.PlannerName,
		})
	}
}

// writeServiceError mapea la taxonomía del motor a status HTTP:
// InvalidInput=400, Forbidden=403, NotFound=404, Conflict=409.
func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case ErrConflict:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Notes:         e.Notes,
		EmployeeID:    e.EmployeeID,
		StoreID:       e.StoreID,
		Start:         e.Start,
		End:           e.End,
		Status:        e.Status,
		PlannedByID:   e.PlannedByID,
		PlannedByRole: e.PlannedByRole,
		PlannedByName: e.PlannedByName,
		PlannedAt:     e.PlannedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
