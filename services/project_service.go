package services

import (
	"context"
	"io"

	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/angelbv/cvweb-backend/uploads"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ImageUpload is one submitted file. Filename is the client-supplied name
// and is only ever used after sanitization.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProjectInput carries the scalar form fields of a project create/edit.
// On edit every field replaces the stored value; absent fields clear it.
type ProjectInput struct {
	Title           string
	Slug            string
	Category        string
	Description     string
	LongDescription string
	Technologies    string
	GithubURL       string
	WebsiteURL      string
	CreatedAt       string // optional date or datetime string
}

// ProjectResult reports a successful create/update.
type ProjectResult struct {
	Project     *models.Project
	ImagesAdded int
}

// ProjectService orchestrates the project write path: each operation runs in
// one database transaction, and the file store is reconciled so that a
// failed request leaves both stores exactly as it found them.
type ProjectService struct {
	db     *gorm.DB
	store  *uploads.Store
	logger zerolog.Logger
}

func NewProjectService(db *gorm.DB, store *uploads.Store) *ProjectService {
	return &ProjectService{
		db:     db,
		store:  store,
		logger: log.With().Str("serviceName", "projectService").Logger(),
	}
}

// Create persists a new project and its images. If anything fails, the
// transaction rolls back and every file written during the attempt is
// removed again.
func (s *ProjectService) Create(ctx context.Context, caller Caller, in ProjectInput, images []ImageUpload) (*ProjectResult, error) {
	if !caller.Owner {
		return nil, errs.NewUnauthorizedError("only the site owner can create projects")
	}
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}
	createdAt, _, err := ParseFlexibleTime(in.CreatedAt)
	if err != nil {
		return nil, errs.NewValidationError("created_at", "unrecognized date format")
	}
	if err := validateImageUploads(images); err != nil {
		return nil, err
	}

	project := projectFromInput(in)
	project.CreatedAt = createdAt // zero value defaults to now on insert

	var written []string
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The project row goes first so image rows can reference its id.
		if err := tx.Create(project).Error; err != nil {
			return errs.NewDatabaseError("create", "project", err)
		}
		if _, err := s.attachImages(tx, project, images, &written); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		s.removeWritten(written)
		return nil, asWriteError("create project", txErr)
	}

	created, err := s.reloadProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return &ProjectResult{Project: created, ImagesAdded: len(written)}, nil
}

// Update replaces a project's scalar fields, removes the selected images,
// and appends new ones, all in one transaction. Files belonging to removed
// rows are deleted only after the commit succeeds.
func (s *ProjectService) Update(ctx context.Context, caller Caller, id uuid.UUID, in ProjectInput, images []ImageUpload, deleteImageIDs []string) (*ProjectResult, error) {
	if !caller.Owner {
		return nil, errs.NewUnauthorizedError("only the site owner can edit projects")
	}

	var existing models.Project
	if err := s.db.WithContext(ctx).Preload("Images").First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFound("project")
		}
		return nil, errs.NewDatabaseError("find", "project", err)
	}

	if err := validateProjectInput(in); err != nil {
		return nil, err
	}
	parsed, dateOnly, err := ParseFlexibleTime(in.CreatedAt)
	if err != nil {
		return nil, errs.NewValidationError("created_at", "unrecognized date format")
	}
	if err := validateImageUploads(images); err != nil {
		return nil, err
	}

	// Ids that are malformed or belong to another project are ignored.
	toDelete := resolveOwnedImages(existing.Images, deleteImageIDs)

	var written []string
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated := projectFromInput(in)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		if !parsed.IsZero() {
			updated.CreatedAt = MergeDate(existing.CreatedAt, parsed, dateOnly)
		}
		if err := tx.Model(&models.Project{}).Where("id = ?", existing.ID).
			Select("Title", "Slug", "CategorySlug", "Description", "LongDescription",
				"Technologies", "GithubURL", "WebsiteURL", "CreatedAt").
			Updates(updated).Error; err != nil {
			return errs.NewDatabaseError("update", "project", err)
		}

		for _, img := range toDelete {
			if err := tx.Delete(&models.ProjectImage{}, "id = ?", img.ID).Error; err != nil {
				return errs.NewDatabaseError("delete", "project image", err)
			}
		}

		if _, err := s.attachImages(tx, updated, images, &written); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		s.removeWritten(written)
		return nil, asWriteError("update project", txErr)
	}

	// Rows are gone; the files follow best-effort.
	for _, img := range toDelete {
		if err := s.store.RemoveImage(img.ImagePath); err != nil {
			s.logger.Warn().Err(err).Str("image", img.ImagePath).Msg("failed to remove replaced image file")
		}
	}

	updated, err := s.reloadProject(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return &ProjectResult{Project: updated, ImagesAdded: len(written)}, nil
}

// Delete removes a project with all of its image and code rows, then
// removes the image files. File removal failures are logged, never surfaced:
// the authoritative state already committed.
func (s *ProjectService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Owner {
		return errs.NewUnauthorizedError("only the site owner can delete projects")
	}

	var project models.Project
	if err := s.db.WithContext(ctx).Preload("Images").First(&project, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.NewNotFound("project")
		}
		return errs.NewDatabaseError("find", "project", err)
	}

	paths := make([]string, 0, len(project.Images))
	for _, img := range project.Images {
		paths = append(paths, img.ImagePath)
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectImage{}).Error; err != nil {
			return errs.NewDatabaseError("delete", "project images", err)
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectCode{}).Error; err != nil {
			return errs.NewDatabaseError("delete", "project code", err)
		}
		if err := tx.Delete(&models.Project{}, "id = ?", project.ID).Error; err != nil {
			return errs.NewDatabaseError("delete", "project", err)
		}
		return nil
	})
	if txErr != nil {
		return asWriteError("delete project", txErr)
	}

	for _, path := range paths {
		if err := s.store.RemoveImage(path); err != nil {
			s.logger.Warn().Err(err).Str("image", path).Msg("failed to remove image file after delete")
		}
	}
	return nil
}

// attachImages writes each upload to disk under a generated name and records
// an image row pointing at the owning project. Written names are appended to
// written so the caller can compensate on failure.
func (s *ProjectService) attachImages(tx *gorm.DB, project *models.Project, images []ImageUpload, written *[]string) (int, error) {
	added := 0
	for _, img := range images {
		if img.Filename == "" {
			continue
		}
		name := uploads.UniqueName(img.Filename)
		if err := s.store.WriteImage(name, img.Content); err != nil {
			return added, errs.NewStorageError("write", name, err)
		}
		*written = append(*written, name)

		caption := project.Title
		row := models.ProjectImage{
			ProjectID: project.ID,
			ImagePath: name,
			Caption:   &caption,
		}
		if err := tx.Create(&row).Error; err != nil {
			return added, errs.NewDatabaseError("create", "project image", err)
		}
		added++
	}
	return added, nil
}

func (s *ProjectService) removeWritten(written []string) {
	for _, name := range written {
		if err := s.store.RemoveImage(name); err != nil {
			s.logger.Warn().Err(err).Str("image", name).Msg("failed to clean up image file after rollback")
		}
	}
}

func (s *ProjectService) reloadProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).Preload("Images").First(&project, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return &project, nil
}

func validateProjectInput(in ProjectInput) error {
	switch {
	case in.Title == "":
		return errs.NewValidationError("title", "title is required")
	case in.Slug == "":
		return errs.NewValidationError("slug", "slug is required")
	case in.Category == "":
		return errs.NewValidationError("category", "category is required")
	}
	return nil
}

// validateImageUploads rejects the whole operation before any state mutates
// when any submitted file has a disallowed extension.
func validateImageUploads(images []ImageUpload) error {
	for _, img := range images {
		if img.Filename == "" {
			continue
		}
		if !uploads.AllowedImage(img.Filename) {
			return errs.NewValidationError("images", "unsupported image type")
		}
	}
	return nil
}

func resolveOwnedImages(owned []models.ProjectImage, ids []string) []models.ProjectImage {
	var out []models.ProjectImage
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		for _, img := range owned {
			if img.ID == id {
				out = append(out, img)
				break
			}
		}
	}
	return out
}

func projectFromInput(in ProjectInput) *models.Project {
	return &models.Project{
		Title:           in.Title,
		Slug:            in.Slug,
		CategorySlug:    in.Category,
		Description:     in.Description,
		LongDescription: optional(in.LongDescription),
		Technologies:    optional(in.Technologies),
		GithubURL:       optional(in.GithubURL),
		WebsiteURL:      optional(in.WebsiteURL),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// asWriteError passes through errors that already carry a status, wrapping
// anything else as a failed transaction.
func asWriteError(operation string, err error) error {
	if _, ok := err.(*errs.ApiErr); ok {
		return err
	}
	return errs.NewTransactionFailedError(operation, err)
}
