package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockverse/internal/iam/access"
	iam "stockverse/internal/iam/domain/model"
	"stockverse/internal/office/model"
)

type memRepo struct {
	tasks    []model.Task
	comments []model.TaskComment
}

func (m *memRepo) Create(_ context.Context, t model.Task) (model.Task, error) {
	t.UUID = uuid.New()
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *memRepo) Read(_ context.Context, business string, id uuid.UUID) (model.Task, error) {
	for _, t := range m.tasks {
		if t.UUID == id && t.Business == business {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (m *memRepo) List(_ context.Context, business, owner string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range m.tasks {
		if t.Business == business && (owner == "" || t.OwnerEmail == owner) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, t model.Task) (model.Task, error) {
	for i := range m.tasks {
		if m.tasks[i].UUID == t.UUID && m.tasks[i].Business == t.Business {
			m.tasks[i] = t
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (m *memRepo) Delete(_ context.Context, business string, id uuid.UUID) error {
	for i := range m.tasks {
		if m.tasks[i].UUID == id && m.tasks[i].Business == business {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memRepo) AddComment(_ context.Context, c model.TaskComment) (model.TaskComment, error) {
	c.UUID = uuid.New()
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *memRepo) ListComments(_ context.Context, business string, taskID uuid.UUID) ([]model.TaskComment, error) {
	var out []model.TaskComment
	for _, c := range m.comments {
		if c.Business == business && c.TaskUUID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

var (
	manager = access.Access{Business: "acme", Email: "m@acme.io", Role: iam.RoleManager}
	ana     = access.Access{Business: "acme", Email: "ana@acme.io", Role: iam.RoleGuest}
	bob     = access.Access{Business: "acme", Email: "bob@acme.io", Role: iam.RoleGuest}
)

func newService(repo *memRepo) *serviceImpl {
	s := NewService(repo).(*serviceImpl)
	s.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateDefaults(t *testing.T) {
	svc := newService(&memRepo{})
	created, err := svc.Create(context.Background(), ana, CreateInput{Title: "  Restock paper "})
	require.NoError(t, err)
	assert.Equal(t, "Restock paper", created.Title)
	assert.Equal(t, model.TaskTodo, created.Status)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, "ana@acme.io", created.OwnerEmail)
	assert.Equal(t, "ana@acme.io", created.CreatedBy)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(&memRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, ana, CreateInput{Title: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, ana, CreateInput{Title: "x", Status: "Blocked"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.Create(ctx, ana, CreateInput{Title: "x", Priority: "Urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestOnlyManagersAssignOthers(t *testing.T) {
	svc := newService(&memRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, ana, CreateInput{Title: "x", OwnerEmail: "bob@acme.io"})
	assert.ErrorIs(t, err, ErrReadOnly)

	created, err := svc.Create(ctx, manager, CreateInput{Title: "x", OwnerEmail: "Bob@Acme.io"})
	require.NoError(t, err)
	assert.Equal(t, "bob@acme.io", created.OwnerEmail)
	assert.Equal(t, "m@acme.io", created.CreatedBy)
}

func TestVisibilityAndOwnership(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)
	ctx := context.Background()

	mine, err := svc.Create(ctx, ana, CreateInput{Title: "ana's"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, CreateInput{Title: "bob's"})
	require.NoError(t, err)

	list, err := svc.List(ctx, ana)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.UUID, list[0].UUID)

	all, err := svc.List(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done := model.TaskDone
	_, err = svc.Update(ctx, bob, mine.UUID, UpdateInput{Status: &done})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob, mine.UUID), ErrForbidden)

	updated, err := svc.Update(ctx, manager, mine.UUID, UpdateInput{Status: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed())

	require.NoError(t, svc.Delete(ctx, ana, mine.UUID))
	assert.ErrorIs(t, svc.Delete(ctx, ana, mine.UUID), ErrNotFound)
}

func TestUpdateDeadline(t *testing.T) {
	svc := newService(&memRepo{})
	ctx := context.Background()
	due := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(ctx, ana, CreateInput{Title: "x", Deadline: &due})
	require.NoError(t, err)
	require.NotNil(t, created.Deadline)

	updated, err := svc.Update(ctx, ana, created.UUID, UpdateInput{ClearDeadline: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Deadline)
}

func TestComments(t *testing.T) {
	svc := newService(&memRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, ana, CreateInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, ana, created.UUID, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddComment(ctx, bob, created.UUID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddComment(ctx, manager, created.UUID, "on it?")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, ana, created.UUID, "yes")
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, ana, created.UUID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "m@acme.io", comments[0].Author)
}

func TestCalendarExportsTasksWithDeadline(t *testing.T) {
	svc := newService(&memRepo{})
	ctx := context.Background()
	due := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

	withDue, err := svc.Create(ctx, ana, CreateInput{Title: "Ship order", Deadline: &due})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ana, CreateInput{Title: "Someday"})
	require.NoError(t, err)

	ics, err := svc.Calendar(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "UID:"+withDue.UUID.String()+"@stockverse")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260320")
	assert.Contains(t, ics, "SUMMARY:[Todo] Ship order")
	assert.NotContains(t, ics, "Someday")
}
