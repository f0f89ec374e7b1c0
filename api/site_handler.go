package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type siteHandler struct {
	responder     Responder
	logger        zerolog.Logger
	projectRepo   *database.ProjectRepo
	blogPostRepo  *database.BlogPostRepo
	resumeService *services.ResumeService
	config        map[string]string
}

func newSiteHandler(projectRepo *database.ProjectRepo, blogPostRepo *database.BlogPostRepo, resumeService *services.ResumeService, c map[string]string) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		projectRepo:   projectRepo,
		blogPostRepo:  blogPostRepo,
		resumeService: resumeService,
		config:        c,
	}
}

// ContactRequest is a visitor's contact-form submission
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// contact forwards a contact-form submission to the site owner by email
func (h siteHandler) contact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req ContactRequest
		if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := services.SendContactEmail(h.config, services.ContactMessage{
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "message sent",
		})
	}
}

// downloadResume serves the CV document as an attachment
func (h siteHandler) downloadResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.resumeService.Exists() {
			h.responder.WriteError(w, errs.NewNotFound("resume"))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+h.resumeService.Filename()+`"`)
		http.ServeFile(w, r, h.resumeService.Path())
	}
}

// uploadResume atomically replaces the CV document
func (h siteHandler) uploadResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("resume file is required"))
			return
		}
		defer file.Close()

		if err := h.resumeService.Replace(callerFromCtx(r.Context()), header.Filename, file); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "resume replaced",
		})
	}
}

// DashboardStats summarizes the project catalog for the admin dashboard
type DashboardStats struct {
	Total      int `json:"total"`
	WithGithub int `json:"with_github"`
	WithDemo   int `json:"with_demo"`
	WithImages int `json:"with_images"`
}

// dashboard serves the admin overview: project stats and category counts
func (h siteHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		stats := DashboardStats{Total: len(projects)}
		for _, p := range projects {
			if p.GithubURL != nil && *p.GithubURL != "" {
				stats.WithGithub++
			}
			if p.WebsiteURL != nil && *p.WebsiteURL != "" {
				stats.WithDemo++
			}
			if len(p.Images) > 0 {
				stats.WithImages++
			}
		}

		categoryCounts, err := h.projectRepo.CategoryCounts()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "projects", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"projects":        projects,
			"stats":           stats,
			"category_counts": categoryCounts,
		})
	}
}
