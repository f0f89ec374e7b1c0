package api

import (
	"net/http"

	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/angelbv/cvweb-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	projectService *services.ProjectService
}

func newProjectHandler(projectRepo *database.ProjectRepo, projectService *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projectRepo:    projectRepo,
		projectService: projectService,
	}
}

// ProjectCollection represents multiple projects
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total,omitempty"`
}

// ProjectWriteResult reports a successful create or update
type ProjectWriteResult struct {
	Project     *models.Project `json:"project"`
	ImagesAdded int             `json:"images_added"`
	Message     string          `json:"message"`
}

// getAllProjects retrieves all projects with their images, newest first
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProject retrieves a project by slug, or by id for admin tooling
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "slug")
		if key == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing project slug"))
			return
		}

		var project *models.Project
		var err error
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			project, err = h.projectRepo.FindByID(id)
		} else {
			project, err = h.projectRepo.FindBySlug(key)
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project from a multipart form with optional images
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		images, closeFiles, err := imageUploadsFromForm(r, "images")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFiles()

		result, err := h.projectService.Create(r.Context(), callerFromCtx(r.Context()), projectInputFromForm(r), images)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, ProjectWriteResult{
			Project:     result.Project,
			ImagesAdded: result.ImagesAdded,
			Message:     "project created successfully",
		})
	}
}

// updateProject replaces a project's fields, removes selected images, and appends new ones
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		images, closeFiles, err := imageUploadsFromForm(r, "images")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeFiles()

		deleteImageIDs := r.Form["delete_image_ids"]

		result, err := h.projectService.Update(r.Context(), callerFromCtx(r.Context()), projectID, projectInputFromForm(r), images, deleteImageIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectWriteResult{
			Project:     result.Project,
			ImagesAdded: result.ImagesAdded,
			Message:     "project updated successfully",
		})
	}
}

// deleteProject deletes a project, its image rows, and their files
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		if err := h.projectService.Delete(r.Context(), callerFromCtx(r.Context()), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

func projectInputFromForm(r *http.Request) services.ProjectInput {
	return services.ProjectInput{
		Title:           r.FormValue("title"),
		Slug:            r.FormValue("slug"),
		Category:        r.FormValue("category"),
		Description:     r.FormValue("description"),
		LongDescription: r.FormValue("long_description"),
		Technologies:    r.FormValue("technologies"),
		GithubURL:       r.FormValue("github_url"),
		WebsiteURL:      r.FormValue("website_url"),
		CreatedAt:       r.FormValue("created_at"),
	}
}

// imageUploadsFromForm opens every submitted file under field. The returned
// closer must run after the service call so readers stay valid until then.
func imageUploadsFromForm(r *http.Request, field string) ([]services.ImageUpload, func(), error) {
	closeAll := func() {}
	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}

	headers := r.MultipartForm.File[field]
	uploads := make([]services.ImageUpload, 0, len(headers))
	var closers []func()
	closeAll = func() {
		for _, c := range closers {
			c()
		}
	}

	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, errs.NewBadRequestError("failed to read uploaded file")
		}
		closers = append(closers, func() { f.Close() })
		uploads = append(uploads, services.ImageUpload{Filename: fh.Filename, Content: f})
	}
	return uploads, closeAll, nil
}
