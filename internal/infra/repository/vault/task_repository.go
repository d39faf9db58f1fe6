// Package vault stores tasks as Markdown notes with YAML frontmatter.
//
// A note is a task when its tags contain the configured task tag. The task id
// is the note's path relative to the vault root, with forward slashes.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/app"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskcore/internal/infra/persistence/file"
	"github.com/spf13/afero"
)

// DefaultTaskTag identifies task notes when no tag is configured
const DefaultTaskTag = "task"

// TaskRepository implements repository.TaskRepository over a vault directory
type TaskRepository struct {
	store    *file.Store
	root     string
	settings settings.Provider
	taskTag  string
	folder   string
}

// Option configures a TaskRepository
type Option func(*TaskRepository)

// WithTaskTag sets the tag that marks a note as a task
func WithTaskTag(tag string) Option {
	return func(r *TaskRepository) {
		if tag = strings.TrimPrefix(strings.TrimSpace(tag), "#"); tag != "" {
			r.taskTag = tag
		}
	}
}

// WithTasksFolder limits listing to a vault-relative folder
func WithTasksFolder(folder string) Option {
	return func(r *TaskRepository) {
		r.folder = strings.Trim(filepath.ToSlash(folder), "/")
	}
}

// NewTaskRepository creates a repository rooted at root
func NewTaskRepository(store *file.Store, root string, p settings.Provider, opts ...Option) *TaskRepository {
	r := &TaskRepository{
		store:    store,
		root:     root,
		settings: p,
		taskTag:  DefaultTaskTag,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetTask retrieves a task by its vault-relative path
func (r *TaskRepository) GetTask(ctx context.Context, id string) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	clean, ok := cleanID(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%s: %w", id, repository.ErrTaskNotFound)
	}

	t, _, err := r.read(clean, r.newLinkResolver())
	return t, err
}

// ListTasks returns every task note under the tasks folder, sorted by id
func (r *TaskRepository) ListTasks(ctx context.Context) ([]task.Task, error) {
	dir := r.abs(r.folder)
	if _, err := r.store.Fs().Stat(dir); errors.Is(err, os.ErrNotExist) {
		return []task.Task{}, nil
	}

	links := r.newLinkResolver()
	tasks := []task.Task{}
	err := r.walk(ctx, dir, func(id string) {
		t, _, err := r.read(id, links)
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
		case err != nil:
			app.GetLogger().Warn("Skipping %s: %v", id, err)
		default:
			tasks = append(tasks, t)
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// SaveTask writes t into its note, creating the note when missing.
// Properties the core does not own and the note body are preserved.
func (r *TaskRepository) SaveTask(ctx context.Context, t task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := cleanID(t.ID)
	if !ok {
		return fmt.Errorf("invalid task id %q", t.ID)
	}
	fields := r.settings.Snapshot().Fields
	p := r.abs(id)

	data, rev, err := r.store.Read(p)
	var (
		doc *document
		old task.Task
	)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if t.Revision != "" {
			return fmt.Errorf("%s was removed: %w", id, repository.ErrConcurrentModification)
		}
		doc, _ = parseDocument(nil)
		old = task.Task{ID: id, Title: defaultTitle(id)}
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", id, err)
	default:
		if t.Revision != "" && t.Revision != rev {
			return fmt.Errorf("%s: %w", id, repository.ErrConcurrentModification)
		}
		if doc, err = parseDocument(data); err != nil {
			return fmt.Errorf("failed to parse %s: %w", id, err)
		}
		old = decodeTask(id, doc.front, fields)
		r.newLinkResolver().resolve(&old)
	}

	next := t.Clone()
	next.ID = id
	if !next.HasTag(r.taskTag) {
		next.Tags = append(next.Tags, r.taskTag)
	}
	encodeTask(doc.front, old, next, fields)

	out, err := doc.bytes()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", id, err)
	}
	if err := r.store.WriteIfMatch(p, out, t.Revision); err != nil {
		if errors.Is(err, file.ErrRevisionMismatch) {
			return fmt.Errorf("%s: %w", id, repository.ErrConcurrentModification)
		}
		return fmt.Errorf("failed to save %s: %w", id, err)
	}
	return nil
}

func (r *TaskRepository) read(id string, links *linkResolver) (task.Task, *document, error) {
	data, rev, err := r.store.Read(r.abs(id))
	if errors.Is(err, os.ErrNotExist) {
		return task.Task{}, nil, fmt.Errorf("%s: %w", id, repository.ErrTaskNotFound)
	}
	if err != nil {
		return task.Task{}, nil, fmt.Errorf("failed to read %s: %w", id, err)
	}

	doc, err := parseDocument(data)
	if err != nil {
		return task.Task{}, nil, fmt.Errorf("failed to parse %s: %w", id, err)
	}
	t := decodeTask(id, doc.front, r.settings.Snapshot().Fields)
	if !t.HasTag(r.taskTag) {
		return task.Task{}, nil, fmt.Errorf("%s is not tagged %q: %w", id, r.taskTag, repository.ErrTaskNotFound)
	}
	links.resolve(&t)
	t.Revision = rev
	return t, doc, nil
}

// walk calls fn with the id of every Markdown note under dir,
// skipping hidden directories such as .obsidian and .trash
func (r *TaskRepository) walk(ctx context.Context, dir string, fn func(id string)) error {
	return afero.Walk(r.store.Fs(), dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			if p != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		fn(filepath.ToSlash(rel))
		return nil
	})
}

func (r *TaskRepository) abs(id string) string {
	return filepath.Join(r.root, filepath.FromSlash(id))
}

// cleanID normalizes id and rejects paths leaving the vault
func cleanID(id string) (string, bool) {
	id = strings.TrimSpace(filepath.ToSlash(id))
	if id == "" || strings.HasPrefix(id, "/") {
		return "", false
	}
	clean := path.Clean(id)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// linkResolver maps bare note names such as [[Buy milk]] to the note's id.
// The name index is built on first use and lives for one repository call.
type linkResolver struct {
	repo   *TaskRepository
	byName map[string][]string
}

func (r *TaskRepository) newLinkResolver() *linkResolver {
	return &linkResolver{repo: r}
}

func (l *linkResolver) resolve(t *task.Task) {
	for i, d := range t.BlockedBy {
		if strings.Contains(d.TargetID, "/") {
			continue
		}
		if _, err := l.repo.store.Fs().Stat(l.repo.abs(d.TargetID)); err == nil {
			continue
		}
		if id, ok := l.lookup(d.TargetID); ok {
			t.BlockedBy[i].TargetID = id
		}
	}
}

// lookup returns the only note named name; ambiguous names stay unresolved
func (l *linkResolver) lookup(name string) (string, bool) {
	if l.byName == nil {
		l.byName = make(map[string][]string)
		err := l.repo.walk(context.Background(), l.repo.root, func(id string) {
			key := strings.ToLower(path.Base(id))
			l.byName[key] = append(l.byName[key], id)
		})
		if err != nil {
			app.GetLogger().Debug("Link index incomplete: %v", err)
		}
	}
	ids := l.byName[strings.ToLower(name)]
	if len(ids) != 1 {
		return "", false
	}
	return ids[0], true
}
