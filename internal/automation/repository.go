package automation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	iam "stockverse/internal/iam/domain/model"
	"stockverse/internal/office/model"
)

const alertPageSize = 200

// Member é o recorte da conta usado na distribuição de alertas.
type Member struct {
	Email string
	Role  iam.UserRole
}

type Repository interface {
	Create(ctx context.Context, m Automation) (Automation, error)
	Read(ctx context.Context, business string, id uuid.UUID) (Automation, error)
	List(ctx context.Context, business string) ([]Automation, error)
	ListActive(ctx context.Context, business string) ([]Automation, error)
	Update(ctx context.Context, m Automation) (Automation, error)
	Delete(ctx context.Context, business string, id uuid.UUID) error
	// StampRun é a única escrita que o motor faz na automação.
	StampRun(ctx context.Context, business string, id uuid.UUID, at time.Time, status string) error

	Tasks(ctx context.Context, business string) ([]model.Task, error)
	Records(ctx context.Context, business string) ([]model.PersonalRecord, error)
	Members(ctx context.Context, business string) ([]Member, error)
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)

	CreateAlert(ctx context.Context, a Alert) (Alert, error)
	ReadAlert(ctx context.Context, business string, id uuid.UUID) (Alert, error)
	ListAlerts(ctx context.Context, business string, role iam.UserRole, email string) ([]Alert, error)
	// MarkAlertRead une o e-mail ao read_by numa única instrução.
	MarkAlertRead(ctx context.Context, business string, id uuid.UUID, email string) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, m Automation) (Automation, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return Automation{}, err
	}
	return m, nil
}

func (r *repositoryImpl) Read(ctx context.Context, business string, id uuid.UUID) (Automation, error) {
	var m Automation
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Automation{}, ErrNotFound
	}
	return m, err
}

func (r *repositoryImpl) List(ctx context.Context, business string) ([]Automation, error) {
	var list []Automation
	err := r.db.WithContext(ctx).Where("business = ?", business).Order("create_at ASC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListActive(ctx context.Context, business string) ([]Automation, error) {
	var list []Automation
	err := r.db.WithContext(ctx).
		Where("business = ? AND active = ?", business, true).
		Order("create_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Update(ctx context.Context, m Automation) (Automation, error) {
	result := r.db.WithContext(ctx).
		Model(&Automation{}).
		Where("uuid = ? AND business = ?", m.UUID, m.Business).
		Select("Name", "Description", "Trigger", "Action", "VisibilityRoles", "Active", "UpdateAt").
		Updates(m)
	if result.Error != nil {
		return Automation{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Automation{}, ErrNotFound
	}
	return r.Read(ctx, m.Business, m.UUID)
}

func (r *repositoryImpl) Delete(ctx context.Context, business string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).Delete(&Automation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryImpl) StampRun(ctx context.Context, business string, id uuid.UUID, at time.Time, status string) error {
	result := r.db.WithContext(ctx).
		Model(&Automation{}).
		Where("uuid = ? AND business = ?", id, business).
		UpdateColumns(map[string]interface{}{
			"last_run_at":     at,
			"last_run_status": status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryImpl) Tasks(ctx context.Context, business string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("business = ?", business).Find(&tasks).Error
	return tasks, err
}

func (r *repositoryImpl) Records(ctx context.Context, business string) ([]model.PersonalRecord, error) {
	var records []model.PersonalRecord
	err := r.db.WithContext(ctx).Where("business = ?", business).Find(&records).Error
	return records, err
}

func (r *repositoryImpl) Members(ctx context.Context, business string) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).
		Model(&iam.User{}).
		Select("email", "role").
		Where("business = ? AND live = ?", business, true).
		Scan(&members).Error
	return members, err
}

func (r *repositoryImpl) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *repositoryImpl) CreateAlert(ctx context.Context, a Alert) (Alert, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return Alert{}, err
	}
	return a, nil
}

func (r *repositoryImpl) ReadAlert(ctx context.Context, business string, id uuid.UUID) (Alert, error) {
	var a Alert
	err := r.db.WithContext(ctx).Where("uuid = ? AND business = ?", id, business).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Alert{}, ErrAlertNotFound
	}
	return a, err
}

func (r *repositoryImpl) ListAlerts(ctx context.Context, business string, role iam.UserRole, email string) ([]Alert, error) {
	var alerts []Alert
	err := r.db.WithContext(ctx).
		Where("business = ?", business).
		Where("roles @> jsonb_build_array(?::text) OR recipients @> jsonb_build_array(?::text)", string(role), email).
		Order("create_at DESC").
		Limit(alertPageSize).
		Find(&alerts).Error
	return alerts, err
}

func (r *repositoryImpl) MarkAlertRead(ctx context.Context, business string, id uuid.UUID, email string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE automation_alerts
		   SET read_by = CASE
		         WHEN read_by @> jsonb_build_array(?::text) THEN read_by
		         ELSE read_by || jsonb_build_array(?::text)
		       END
		 WHERE uuid = ? AND business = ?`,
		email, email, id, business,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}
