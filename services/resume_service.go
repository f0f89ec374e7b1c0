package services

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/uploads"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ResumeService manages the single CV document. There is exactly one, under
// a fixed configured filename, replaced atomically on upload.
type ResumeService struct {
	store  *uploads.Store
	logger zerolog.Logger
}

func NewResumeService(store *uploads.Store) *ResumeService {
	return &ResumeService{
		store:  store,
		logger: log.With().Str("serviceName", "resumeService").Logger(),
	}
}

// Path returns the on-disk location of the current resume document.
func (s *ResumeService) Path() string {
	return s.store.ResumePath()
}

// Filename returns the fixed name the document is served under.
func (s *ResumeService) Filename() string {
	return s.store.ResumeName()
}

// Exists reports whether a resume has been uploaded yet.
func (s *ResumeService) Exists() bool {
	return s.store.Exists(s.store.ResumePath())
}

// Replace swaps in a new resume document. Only PDFs are accepted; the swap
// is atomic so a concurrent download never sees a partial file.
func (s *ResumeService) Replace(caller Caller, filename string, content io.Reader) error {
	if !caller.Owner {
		return errs.NewUnauthorizedError("only the site owner can replace the resume")
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return errs.NewValidationError("resume", "resume must be a PDF")
	}
	if err := s.store.SaveResume(content); err != nil {
		return errs.NewStorageError("write", s.store.ResumePath(), err)
	}
	s.logger.Info().Str("path", s.store.ResumePath()).Msg("resume replaced")
	return nil
}
