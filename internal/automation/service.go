package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"stockverse/internal/iam/access"
	iam "stockverse/internal/iam/domain/model"
	"stockverse/internal/office/model"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/metrics"
)

// Notifier publica texto nos webhooks globais e nos extras informados.
type Notifier interface {
	Notify(ctx context.Context, text string, extra ...string)
}

// WebhookDirectory resolve os webhooks da empresa.
type WebhookDirectory interface {
	WebhookURLs(ctx context.Context, business string) []string
}

type Input struct {
	Name            string
	Description     string
	Trigger         Trigger
	Action          Action
	VisibilityRoles []iam.UserRole
	Active          *bool
}

type UpdateInput struct {
	Name            *string
	Description     *string
	Trigger         *Trigger
	Action          *Action
	VisibilityRoles *[]iam.UserRole
	Active          *bool
}

type RunItem struct {
	AutomationUUID uuid.UUID
	Name           string
	Message        string
}

type RunResult struct {
	Triggered int
	Results   []RunItem
	Metrics   Snapshot
}

// AlertView é o alerta do ponto de vista de quem consulta.
type AlertView struct {
	Alert
	Read bool
}

type Service interface {
	Create(ctx context.Context, a access.Access, in Input) (Automation, error)
	List(ctx context.Context, a access.Access) ([]Automation, error)
	Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (Automation, error)
	Delete(ctx context.Context, a access.Access, id uuid.UUID) error

	// Run avalia as automações ativas (ou só id, quando informado, mesmo
	// inativa) e executa as ações das que dispararem.
	Run(ctx context.Context, a access.Access, id *uuid.UUID) (RunResult, error)

	ListAlerts(ctx context.Context, a access.Access) ([]AlertView, error)
	MarkAlertRead(ctx context.Context, a access.Access, id uuid.UUID) error
}

type serviceImpl struct {
	repository Repository
	mail       mailer.Service
	notifier   Notifier
	webhooks   WebhookDirectory
	now        func() time.Time
}

func NewService(repository Repository, mail mailer.Service, notifier Notifier, webhooks WebhookDirectory) Service {
	if mail == nil {
		mail = mailer.Disabled()
	}
	return &serviceImpl{
		repository: repository,
		mail:       mail,
		notifier:   notifier,
		webhooks:   webhooks,
		now:        time.Now,
	}
}

func authorize(a access.Access) error {
	if !a.IsAdmin() {
		return ErrAdminOnly
	}
	if !a.Has(iam.ModuleAutomations) {
		return ErrNotEntitled
	}
	return nil
}

func (s *serviceImpl) Create(ctx context.Context, a access.Access, in Input) (Automation, error) {
	if err := authorize(a); err != nil {
		return Automation{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Automation{}, ErrInvalidInput
	}
	if err := validateTrigger(in.Trigger); err != nil {
		return Automation{}, err
	}
	if err := validateAction(in.Action); err != nil {
		return Automation{}, err
	}
	roles, err := normalizeRoles(in.VisibilityRoles)
	if err != nil {
		return Automation{}, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.now().UTC()
	return s.repository.Create(ctx, Automation{
		Business:        a.Business,
		OwnerEmail:      a.Email,
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Trigger:         datatypes.NewJSONType(in.Trigger),
		Action:          datatypes.NewJSONType(in.Action),
		VisibilityRoles: roles,
		Active:          active,
		CreateAt:        now,
		UpdateAt:        now,
	})
}

func (s *serviceImpl) List(ctx context.Context, a access.Access) ([]Automation, error) {
	if err := authorize(a); err != nil {
		return nil, err
	}
	return s.repository.List(ctx, a.Business)
}

func (s *serviceImpl) Update(ctx context.Context, a access.Access, id uuid.UUID, in UpdateInput) (Automation, error) {
	if err := authorize(a); err != nil {
		return Automation{}, err
	}
	current, err := s.repository.Read(ctx, a.Business, id)
	if err != nil {
		return Automation{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Automation{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Trigger != nil {
		if err := validateTrigger(*in.Trigger); err != nil {
			return Automation{}, err
		}
		current.Trigger = datatypes.NewJSONType(*in.Trigger)
	}
	if in.Action != nil {
		if err := validateAction(*in.Action); err != nil {
			return Automation{}, err
		}
		current.Action = datatypes.NewJSONType(*in.Action)
	}
	if in.VisibilityRoles != nil {
		if current.VisibilityRoles, err = normalizeRoles(*in.VisibilityRoles); err != nil {
			return Automation{}, err
		}
	}
	if in.Active != nil {
		current.Active = *in.Active
	}
	current.UpdateAt = s.now().UTC()
	return s.repository.Update(ctx, current)
}

func (s *serviceImpl) Delete(ctx context.Context, a access.Access, id uuid.UUID) error {
	if err := authorize(a); err != nil {
		return err
	}
	return s.repository.Delete(ctx, a.Business, id)
}

func (s *serviceImpl) Run(ctx context.Context, a access.Access, id *uuid.UUID) (RunResult, error) {
	if err := authorize(a); err != nil {
		return RunResult{}, err
	}
	metrics.AutomationRuns.Inc()
	log := logger.FromContext(ctx)
	now := s.now().UTC()

	var (
		tasks      []model.Task
		records    []model.PersonalRecord
		members    []Member
		candidates []Automation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = s.repository.Tasks(gctx, a.Business)
		return err
	})
	g.Go(func() (err error) {
		records, err = s.repository.Records(gctx, a.Business)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.repository.Members(gctx, a.Business)
		return err
	})
	g.Go(func() error {
		if id == nil {
			list, err := s.repository.ListActive(gctx, a.Business)
			candidates = list
			return err
		}
		one, err := s.repository.Read(gctx, a.Business, *id)
		if err != nil {
			return err
		}
		candidates = []Automation{one}
		return nil
	})
	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	snap := ComputeSnapshot(tasks, records, now)
	result := RunResult{Metrics: snap, Results: []RunItem{}}

	for _, auto := range candidates {
		trigger, action := auto.Trigger.Data(), auto.Action.Data()
		if trigger.Type == "" || action.Type == "" {
			continue
		}
		outcome, err := Evaluate(trigger, snap, records, now)
		if err != nil {
			log.Warn("[AUTOMATION] gatilho inválido ignorado",
				zap.String("automation", auto.UUID.String()), zap.Error(err))
			continue
		}
		if !outcome.Triggered {
			continue
		}

		message := firstNonEmpty(action.Message, outcome.Message, auto.Name)
		if err := s.fire(ctx, auto, action, message, members, snap, outcome, now); err != nil {
			log.Error("[AUTOMATION] falha ao executar automação",
				zap.String("automation", auto.UUID.String()), zap.Error(err))
			continue
		}
		result.Triggered++
		result.Results = append(result.Results, RunItem{AutomationUUID: auto.UUID, Name: auto.Name, Message: message})
	}
	return result, nil
}

// fire grava o alerta e executa os efeitos. Só a gravação do alerta é
// obrigatória; tarefa, e-mail e webhook são registrados e ignorados em
// caso de falha.
func (s *serviceImpl) fire(ctx context.Context, auto Automation, action Action, message string, members []Member, snap Snapshot, outcome Outcome, now time.Time) error {
	log := logger.FromContext(ctx).With(zap.String("automation", auto.UUID.String()))
	recipients := Recipients(members, auto.Roles(), auto.OwnerEmail)

	_, err := s.repository.CreateAlert(ctx, Alert{
		AutomationUUID: auto.UUID,
		Business:       auto.Business,
		Message:        message,
		Roles:          datatypes.JSONSlice[iam.UserRole](auto.Roles()),
		Action:         datatypes.NewJSONType(action),
		ReadBy:         datatypes.JSONSlice[string]{},
		Recipients:     datatypes.JSONSlice[string](recipients),
		Metadata:       datatypes.NewJSONType(AlertMetadata{Metrics: snap, Matches: outcome.Matches}),
		CreateAt:       now,
	})
	if err != nil {
		return fmt.Errorf("criar alerta: %w", err)
	}

	if action.Type == ActionTask {
		if _, err := s.repository.CreateTask(ctx, taskFor(auto, action, message, now)); err != nil {
			log.Warn("[AUTOMATION] falha ao criar tarefa", zap.Error(err))
		}
	}

	if action.Type == ActionEmail || action.Email != nil {
		var payload EmailAction
		if action.Email != nil {
			payload = *action.Email
		}
		fallback := firstNonEmpty(message, auto.Description, auto.Name)
		mailer.Notify(ctx, s.mail, mailer.Message{
			To:      recipients,
			Subject: firstNonEmpty(payload.Subject, fallback),
			Text:    firstNonEmpty(payload.Body, fallback),
		}, log)
	}

	if s.notifier != nil {
		var extra []string
		if s.webhooks != nil {
			extra = s.webhooks.WebhookURLs(ctx, auto.Business)
		}
		s.notifier.Notify(ctx, fmt.Sprintf("[%s] %s: %s", auto.Business, auto.Name, message), extra...)
	}

	if err := s.repository.StampRun(ctx, auto.Business, auto.UUID, now, RunStatusTriggered); err != nil {
		log.Warn("[AUTOMATION] falha ao registrar execução", zap.Error(err))
	}
	metrics.AutomationTriggers.WithLabelValues(string(action.Type)).Inc()
	return nil
}

// taskFor monta a tarefa atribuída ao dono da automação.
func taskFor(auto Automation, action Action, message string, now time.Time) model.Task {
	var spec TaskAction
	if action.Task != nil {
		spec = *action.Task
	}
	priority := model.TaskPriority(spec.Priority)
	if !model.IsValidTaskPriority(priority) {
		priority = model.PriorityMedium
	}
	deadline := now
	if spec.DueInDays != nil {
		deadline = now.AddDate(0, 0, *spec.DueInDays)
	}
	id := auto.UUID
	return model.Task{
		UUID:           uuid.New(),
		Business:       auto.Business,
		OwnerEmail:     auto.OwnerEmail,
		Title:          firstNonEmpty(spec.Title, auto.Name),
		Description:    firstNonEmpty(spec.Description, message),
		Status:         model.TaskTodo,
		Priority:       priority,
		Deadline:       &deadline,
		CreatedBy:      auto.OwnerEmail,
		AutomationUUID: &id,
		CreateAt:       now,
		UpdateAt:       now,
	}
}

// Recipients une os membros com papel visível ao dono, sem repetir e-mails
// (comparação sem caixa) e sem entradas vazias.
func Recipients(members []Member, roles []iam.UserRole, owner string) []string {
	allowed := make(map[iam.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	seen := make(map[string]bool)
	out := make([]string, 0, len(members)+1)
	add := func(email string) {
		email = iam.NormalizeEmail(email)
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		out = append(out, email)
	}
	for _, m := range members {
		if allowed[m.Role] {
			add(m.Email)
		}
	}
	add(owner)
	return out
}

func (s *serviceImpl) ListAlerts(ctx context.Context, a access.Access) ([]AlertView, error) {
	alerts, err := s.repository.ListAlerts(ctx, a.Business, a.Role, a.Email)
	if err != nil {
		return nil, err
	}
	out := make([]AlertView, 0, len(alerts))
	for _, al := range alerts {
		out = append(out, AlertView{Alert: al, Read: al.ReadByEmail(a.Email)})
	}
	return out, nil
}

func (s *serviceImpl) MarkAlertRead(ctx context.Context, a access.Access, id uuid.UUID) error {
	alert, err := s.repository.ReadAlert(ctx, a.Business, id)
	if err != nil {
		return err
	}
	if !alert.VisibleTo(a.Role, a.Email) {
		return ErrAlertNotFound
	}
	if alert.ReadByEmail(a.Email) {
		return nil
	}
	return s.repository.MarkAlertRead(ctx, a.Business, id, a.Email)
}

func validateTrigger(t Trigger) error {
	switch t.Type {
	case TriggerKPI:
		if t.KPI == nil || strings.TrimSpace(t.KPI.MetricID) == "" {
			return ErrInvalidTrigger
		}
		switch t.KPI.Comparator {
		case Above, Below, Equals:
		default:
			return ErrInvalidTrigger
		}
	case TriggerDate:
		if t.Date == nil || t.Date.OffsetDays < 0 {
			return ErrInvalidTrigger
		}
		if t.Date.Field != FieldBirthDate && t.Date.Field != FieldStartDate {
			return ErrInvalidTrigger
		}
	default:
		return ErrInvalidTrigger
	}
	return nil
}

func validateAction(a Action) error {
	switch a.Type {
	case ActionAlert, ActionEmail:
	case ActionTask:
		if a.Task != nil && a.Task.DueInDays != nil && *a.Task.DueInDays < 0 {
			return ErrInvalidAction
		}
	default:
		return ErrInvalidAction
	}
	return nil
}

// normalizeRoles valida e deduplica; vazio vira só Admin.
func normalizeRoles(in []iam.UserRole) (datatypes.JSONSlice[iam.UserRole], error) {
	out := make([]iam.UserRole, 0, len(in))
	seen := make(map[iam.UserRole]bool, len(in))
	for _, r := range in {
		if !iam.IsValidUserRole(r) {
			return nil, ErrInvalidInput
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = append(out, iam.RoleAdmin)
	}
	return datatypes.JSONSlice[iam.UserRole](out), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
