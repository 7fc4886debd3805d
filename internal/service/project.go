package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joescharf/portal/internal/filter"
	"github.com/joescharf/portal/internal/models"
	"github.com/joescharf/portal/internal/store"
)

// ProjectService handles project operations on top of a store adapter.
type ProjectService struct {
	store  store.Store
	logger *slog.Logger
	today  func() string
}

// NewProjectService creates a new project service.
func NewProjectService(s store.Store, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		store:  s,
		logger: logger,
		today:  func() string { return time.Now().Format(time.DateOnly) },
	}
}

// List returns all projects in storage order.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.store.ListProjects(ctx)
}

// Search returns the projects matching f, in storage order.
func (s *ProjectService) Search(ctx context.Context, f filter.Project) ([]*models.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(projects), nil
}

// Get fetches a project by ID. A missing project yields an error matching store.ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.store.GetProject(ctx, id)
}

// Create validates the form data, applies defaults, and stores a new project.
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if err := validateProject(in, true); err != nil {
		return nil, err
	}
	if in.Status == nil {
		in.Status = models.Ptr(models.ProjectStatusActive)
	}
	if in.StartDate == nil {
		in.StartDate = models.Ptr(s.today())
	}
	if in.Description == nil {
		in.Description = models.Ptr("")
	}

	p, err := s.store.CreateProject(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	s.logger.Debug("project created", "id", p.ID, "name", p.Name)
	return p, nil
}

// Update merges the provided fields into an existing project.
func (s *ProjectService) Update(ctx context.Context, id string, in models.ProjectInput) (*models.Project, error) {
	if err := validateProject(in, false); err != nil {
		return nil, err
	}
	p, err := s.store.UpdateProject(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("project updated", "id", p.ID)
	return p, nil
}

// Delete removes a project and every ticket that belongs to it. It reports
// false when no such project existed, in which case nothing is touched.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Debug("project deleted", "id", id)
	}
	return removed, nil
}
