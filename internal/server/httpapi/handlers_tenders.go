package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/grovellows/tendertrack/internal/server/tenders"
)

type tenderPayload struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Budget               string            `json:"budget,omitempty"`
	Deadline             time.Time         `json:"deadline"`
	Location             string            `json:"location"`
	ProjectType          string            `json:"project_type"`
	ContractingAuthority string            `json:"contracting_authority"`
	Participants         []string          `json:"participants"`
	ContactDetails       map[string]string `json:"contact_details"`
	TenderDate           time.Time         `json:"tender_date"`
	Category             string            `json:"category"`
	PlatformSource       string            `json:"platform_source"`
	PlatformURL          string            `json:"platform_url"`
	Status               string            `json:"status"`
	Notes                string            `json:"notes,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

func toTenderPayload(t *tenders.Tender) tenderPayload {
	return tenderPayload{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		Budget:               t.Budget,
		Deadline:             t.Deadline,
		Location:             t.Location,
		ProjectType:          t.ProjectType,
		ContractingAuthority: t.ContractingAuthority,
		Participants:         t.Participants,
		ContactDetails:       t.ContactDetails,
		TenderDate:           t.TenderDate,
		Category:             t.Category,
		PlatformSource:       t.PlatformSource,
		PlatformURL:          t.PlatformURL,
		Status:               t.Status,
		Notes:                t.Notes,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func toTenderPayloads(list []tenders.Tender) []tenderPayload {
	payload := make([]tenderPayload, 0, len(list))
	for i := range list {
		payload = append(payload, toTenderPayload(&list[i]))
	}
	return payload
}

func (s *Server) handleListTenders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := tenders.Filter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
	}

	list, err := s.tenders.List(r.Context(), filter)
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTenderPayloads(list))
}

func (s *Server) handleGetTender(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTenderPayload(t))
}

func (s *Server) handleCreateTender(w http.ResponseWriter, r *http.Request) {
	var req tenderPayload
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.tenders.Create(r.Context(), &tenders.Tender{
		Title:                req.Title,
		Description:          req.Description,
		Budget:               req.Budget,
		Deadline:             req.Deadline,
		Location:             req.Location,
		ProjectType:          req.ProjectType,
		ContractingAuthority: req.ContractingAuthority,
		Participants:         req.Participants,
		ContactDetails:       req.ContactDetails,
		TenderDate:           req.TenderDate,
		Category:             req.Category,
		PlatformSource:       req.PlatformSource,
		PlatformURL:          req.PlatformURL,
		Status:               req.Status,
		Notes:                req.Notes,
	})
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, toTenderPayload(created))
}

func (s *Server) handleUpdateTender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.tenders.Update(r.Context(), mux.Vars(r)["id"], req.Status, req.Notes); err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Tender updated"})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.tenders.AddFavorite(r.Context(), currentUser(r).ID, mux.Vars(r)["id"]); err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Added to favorites"})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.tenders.RemoveFavorite(r.Context(), currentUser(r).ID, mux.Vars(r)["id"]); err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := s.tenders.ListFavorites(r.Context(), currentUser(r).ID)
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toTenderPayloads(list))
}

type sharePayload struct {
	ID         string    `json:"id"`
	TenderID   string    `json:"tender_id"`
	SharedBy   string    `json:"shared_by"`
	SharedWith []string  `json:"shared_with"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenderID   string   `json:"tender_id"`
		SharedWith []string `json:"shared_with"`
		Message    string   `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	share, err := s.tenders.Share(r.Context(), currentUser(r).ID, req.TenderID, req.SharedWith, req.Message)
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, sharePayload{
		ID:         share.ID,
		TenderID:   share.TenderID,
		SharedBy:   share.SharedBy,
		SharedWith: share.SharedWith,
		Message:    share.Message,
		CreatedAt:  share.CreatedAt,
	})
}

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	list, err := s.tenders.ListShares(r.Context(), u.ID, u.Email)
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}

	payload := make([]sharePayload, 0, len(list))
	for _, sh := range list {
		payload = append(payload, sharePayload{
			ID:         sh.ID,
			TenderID:   sh.TenderID,
			SharedBy:   sh.SharedBy,
			SharedWith: sh.SharedWith,
			Message:    sh.Message,
			CreatedAt:  sh.CreatedAt,
		})
	}
	s.respondJSON(w, http.StatusOK, payload)
}
