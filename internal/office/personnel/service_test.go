package personnel

import (
	"context"
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
	records []model.PersonalRecord
}

func (m *memRepo) Create(_ context.Context, r model.PersonalRecord) (model.PersonalRecord, error) {
	r.UUID = uuid.New()
	m.records = append(m.records, r)
	return r, nil
}

func (m *memRepo) Read(_ context.Context, business string, id uuid.UUID) (model.PersonalRecord, error) {
	for _, r := range m.records {
		if r.UUID == id && r.Business == business {
			return r, nil
		}
	}
	return model.PersonalRecord{}, ErrNotFound
}

func (m *memRepo) List(_ context.Context, business string) ([]model.PersonalRecord, error) {
	var out []model.PersonalRecord
	for _, r := range m.records {
		if r.Business == business {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, r model.PersonalRecord) (model.PersonalRecord, error) {
	for i := range m.records {
		if m.records[i].UUID == r.UUID && m.records[i].Business == r.Business {
			m.records[i] = r
			return r, nil
		}
	}
	return model.PersonalRecord{}, ErrNotFound
}

func (m *memRepo) Delete(_ context.Context, business string, id uuid.UUID) error {
	for i := range m.records {
		if m.records[i].UUID == id && m.records[i].Business == business {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var (
	admin = access.Access{Business: "acme", Email: "boss@acme.io", Role: iam.RoleAdmin}
	guest = access.Access{Business: "acme", Email: "g@acme.io", Role: iam.RoleGuest}
	other = access.Access{Business: "globex", Email: "x@globex.io", Role: iam.RoleAdmin}
)

func TestGuestCannotManage(t *testing.T) {
	svc := NewService(&memRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, guest, CreateInput{LegalName: "Ana"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.List(ctx, guest)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, guest, uuid.New()), ErrForbidden)
}

func TestCreateParsesDates(t *testing.T) {
	svc := NewService(&memRepo{})
	created, err := svc.Create(context.Background(), admin, CreateInput{
		LegalName: " Ana Souza ",
		BirthDate: "1990-03-15",
		StartDate: "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", created.LegalName)
	assert.Equal(t, "boss@acme.io", created.OwnerEmail)
	require.NotNil(t, created.BirthDate)
	assert.Equal(t, time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC), *created.BirthDate)

	resp := ToResponse(created)
	assert.Equal(t, "2024-01-02", resp.StartDate)

	_, err = svc.Create(context.Background(), admin, CreateInput{LegalName: "Bob", BirthDate: "15/03/1990"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateClearsDateAndIsTenantScoped(t *testing.T) {
	svc := NewService(&memRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, CreateInput{LegalName: "Ana", StartDate: "2024-01-02"})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, admin, created.UUID, UpdateInput{StartDate: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.StartDate)

	_, err = svc.Update(ctx, other, created.UUID, UpdateInput{StartDate: &empty})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, other, created.UUID), ErrNotFound)

	list, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
