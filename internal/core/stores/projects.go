package stores

import (
	"encoding/json"
	"log/slog"
	"sort"
	stdsync "sync"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/sync"
	"github.com/tallyspace/tallyspace/internal/kv"
)

const projectsKey = "projects"

// ProjectStore holds the local copy of the workspace's projects.
type ProjectStore struct {
	mu       stdsync.RWMutex
	projects map[string]domain.Project
	state    kv.Store
	logger   *slog.Logger
}

func NewProjectStore(state kv.Store, logger *slog.Logger) (*ProjectStore, error) {
	projects, err := loadSnapshot[domain.Project](state, projectsKey)
	if err != nil {
		return nil, err
	}
	return &ProjectStore{projects: projects, state: state, logger: logger}, nil
}

var _ sync.Store = (*ProjectStore)(nil)

func (s *ProjectStore) Get(projectID string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[projectID]
	return project, ok
}

func (s *ProjectStore) List() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := make([]domain.Project, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}

func (s *ProjectStore) HandleEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := event.(type) {
	case domain.ProjectCreated:
		s.projects[e.Project.ProjectID] = e.Project
	case domain.ProjectUpdated:
		s.projects[e.Project.ProjectID] = e.Project
	case domain.ProjectDeleted:
		delete(s.projects, e.ProjectID)
	default:
		return
	}
	saveSnapshot(s.state, projectsKey, s.logger, s.projects)
}

func (s *ProjectStore) HandleMutationSuccess(m sync.Mutation, result json.RawMessage) {}

func (s *ProjectStore) HandleMutationError(m sync.Mutation) {
	for _, event := range m.Rollback {
		s.HandleEvent(event)
	}
}
