package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

type ApplicationsHandler struct {
	appRepo repository.ApplicationRepo
	jobRepo repository.JobRepo
}

func NewApplicationsHandler(ar repository.ApplicationRepo, jr repository.JobRepo) *ApplicationsHandler {
	return &ApplicationsHandler{appRepo: ar, jobRepo: jr}
}

type applyRequest struct {
	CoverLetter string  `json:"coverLetter"`
	ResumeURL   *string `json:"resumeUrl,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Apply submits the caller's application for a job. The duplicate check
// here is advisory; the unique index on (job_id, applicant_id) decides
// races, so two concurrent submissions produce one row and one error.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeError(w, apperr.NotFound("job not found"))
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request"))
		return
	}

	job, err := h.jobRepo.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !job.IsActive {
		writeError(w, apperr.NotFound("job not found or no longer active"))
		return
	}

	req.CoverLetter = strings.TrimSpace(req.CoverLetter)
	if req.CoverLetter == "" {
		writeError(w, apperr.Validation("cover letter is required"))
		return
	}

	user, _ := UserFromContext(r.Context())

	app := models.Application{
		JobID:       jobID,
		ApplicantID: user.ID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
		Status:      models.StatusPending,
	}

	if _, err := h.appRepo.CreateApplication(r.Context(), &app); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Application submitted successfully."}, http.StatusOK)
}

// ListMine returns only the caller's own applications, newest first.
func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	apps, err := h.appRepo.ListByApplicant(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	if apps == nil {
		apps = []models.ApplicationView{}
	}
	writeJSON(w, apps, http.StatusOK)
}

func (h *ApplicationsHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		writeError(w, apperr.NotFound("job not found"))
		return
	}

	if _, err := h.jobRepo.GetJob(r.Context(), jobID); err != nil {
		writeError(w, err)
		return
	}

	apps, err := h.appRepo.ListByJob(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	if apps == nil {
		apps = []models.ApplicationView{}
	}
	writeJSON(w, apps, http.StatusOK)
}

func (h *ApplicationsHandler) ListAllAdmin(w http.ResponseWriter, r *http.Request) {
	apps, err := h.appRepo.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if apps == nil {
		apps = []models.ApplicationView{}
	}
	writeJSON(w, apps, http.StatusOK)
}

// UpdateStatus moves an application to any of the four enumerated statuses.
// There is no ordering constraint between them.
func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("application not found"))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request"))
		return
	}
	if !models.ValidStatus(req.Status) {
		writeError(w, apperr.Validation("invalid status value"))
		return
	}

	if err := h.appRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: fmt.Sprintf("Application status updated to %s.", req.Status)}, http.StatusOK)
}
