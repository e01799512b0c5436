package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/openhire/jobboard/internal/apperr"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
)

type JobsHandler struct {
	jobRepo repository.JobRepo
}

func NewJobsHandler(jr repository.JobRepo) *JobsHandler {
	return &JobsHandler{jobRepo: jr}
}

type jobRequest struct {
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	JobType      string     `json:"jobType"`
	Category     string     `json:"category"`
	SalaryRange  *string    `json:"salaryRange,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
}

func (req *jobRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)
	req.Requirements = strings.TrimSpace(req.Requirements)

	if req.Title == "" || req.Company == "" || req.Location == "" || req.Description == "" || req.Requirements == "" {
		return apperr.Validation("title, company, location, description and requirements are required")
	}
	if req.JobType == "" {
		req.JobType = "Full-Time"
	}

	return nil
}

type createJobResponse struct {
	Message string `json:"message"`
	JobID   int64  `json:"jobId"`
}

// List returns active postings for the public and everything for admins.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.JobFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		JobType:  q.Get("jobType"),
		Location: q.Get("location"),
	}

	user, _ := UserFromContext(r.Context())
	activeOnly := !user.IsAdmin()

	jobs, err := h.jobRepo.ListJobs(r.Context(), filter, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	if jobs == nil {
		jobs = []models.JobView{}
	}
	writeJSON(w, jobs, http.StatusOK)
}

// Get applies the same role-based visibility as List: an inactive posting
// is not found for anyone but an admin.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("job not found"))
		return
	}

	job, err := h.jobRepo.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	user, _ := UserFromContext(r.Context())
	if !job.IsActive && !user.IsAdmin() {
		writeError(w, apperr.NotFound("job not found"))
		return
	}

	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	user, _ := UserFromContext(r.Context())

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	job := models.Job{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		JobType:      req.JobType,
		Category:     req.Category,
		SalaryRange:  req.SalaryRange,
		IsActive:     isActive,
		Deadline:     req.Deadline,
		PostedByID:   user.ID,
	}

	id, err := h.jobRepo.CreateJob(r.Context(), &job)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, createJobResponse{Message: "Job created successfully.", JobID: id}, http.StatusCreated)
}

// Update replaces all mutable fields of the posting, including isActive.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("job not found"))
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	job := models.Job{
		ID:           id,
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		JobType:      req.JobType,
		Category:     req.Category,
		SalaryRange:  req.SalaryRange,
		IsActive:     isActive,
		Deadline:     req.Deadline,
	}

	if err := h.jobRepo.UpdateJob(r.Context(), &job); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Job updated successfully."}, http.StatusOK)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, apperr.NotFound("job not found"))
		return
	}

	if err := h.jobRepo.DeleteJob(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, messageResponse{Message: "Job deleted successfully."}, http.StatusOK)
}

// ListAllAdmin returns every posting, active or not.
func (h *JobsHandler) ListAllAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.JobFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		JobType:  q.Get("jobType"),
		Location: q.Get("location"),
	}

	jobs, err := h.jobRepo.ListJobs(r.Context(), filter, false)
	if err != nil {
		writeError(w, err)
		return
	}

	if jobs == nil {
		jobs = []models.JobView{}
	}
	writeJSON(w, jobs, http.StatusOK)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
