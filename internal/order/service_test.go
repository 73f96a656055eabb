package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockverse/internal/infra/paypal"
	"stockverse/internal/pkg/mailer"
	"stockverse/internal/pkg/metrics"
)

type memRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]Order
}

func newMemRepo() *memRepo {
	return &memRepo{orders: map[uuid.UUID]Order{}}
}

func (m *memRepo) Create(_ context.Context, o Order) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.UUID = uuid.New()
	m.orders[o.UUID] = o
	return o, nil
}

func (m *memRepo) Read(_ context.Context, business string, id uuid.UUID) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Business != business {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (m *memRepo) List(_ context.Context, business, createdBy string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for _, o := range m.orders {
		if o.Business == business && (createdBy == "" || o.CreatedBy == createdBy) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) Transition(_ context.Context, next Order, observed Status, version int) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[next.UUID]
	if !ok || cur.Business != next.Business || cur.Status != observed || cur.Version != version {
		return Order{}, ErrConflict
	}
	next.Version = version + 1
	m.orders[next.UUID] = next
	return next, nil
}

// bump simula uma escrita concorrente.
func (m *memRepo) bump(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[id]
	o.Version++
	m.orders[id] = o
}

type fakeGateway struct {
	created   []decimal.Decimal
	captured  []string
	status    string
	err       error
	// onCapture roda depois da captura, antes da gravação do pedido
	onCapture func()
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal, _, _, _ string) (paypal.Order, error) {
	if g.err != nil {
		return paypal.Order{}, g.err
	}
	g.created = append(g.created, amount)
	return paypal.Order{ID: "PP-1", Status: "CREATED", ApproveURL: "https://paypal.example/approve/PP-1"}, nil
}

func (g *fakeGateway) CaptureOrder(_ context.Context, orderID string) (paypal.Capture, error) {
	if g.err != nil {
		return paypal.Capture{}, g.err
	}
	g.captured = append(g.captured, orderID)
	if g.onCapture != nil {
		g.onCapture()
	}
	return paypal.Capture{OrderID: orderID, Status: g.status}, nil
}

type fakeMailer struct {
	sent []mailer.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type fakeNotifier struct {
	texts []string
	extra []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string, extra ...string) {
	f.texts = append(f.texts, text)
	f.extra = extra
}

type staticWebhooks []string

func (s staticWebhooks) WebhookURLs(context.Context, string) []string { return s }

type fixture struct {
	svc      Service
	repo     *memRepo
	gateway  *fakeGateway
	mail     *fakeMailer
	notifier *fakeNotifier
}

func newFixture() fixture {
	f := fixture{
		repo:     newMemRepo(),
		gateway:  &fakeGateway{status: paypal.StatusCompleted},
		mail:     &fakeMailer{},
		notifier: &fakeNotifier{},
	}
	svc := NewService(f.repo, Options{
		Gateway:  f.gateway,
		Mail:     f.mail,
		Notifier: f.notifier,
		Webhooks: staticWebhooks{"https://hooks.example/acme"},
	}).(*serviceImpl)
	svc.now = func() time.Time { return smNow }
	f.svc = svc
	return f
}

func validCreate() CreateInput {
	return CreateInput{
		Title:       "Spring flyer",
		Usage:       "store window",
		Details:     "A5, glossy, 200 units",
		ColorMode:   ColorColor,
		Colors:      []string{"#fff", "0a0b0c"},
		Attachments: []FileInput{{Name: "logo.png", MimeType: "image/png", Data: encoded(16)}},
		Note:        "deadline friday",
	}
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	before := testutil.ToFloat64(metrics.OrderTransitions.WithLabelValues("create"))

	o, err := f.svc.Create(context.Background(), creator, validCreate())
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-20240301-[0-9A-F]{6}$`, o.OrderNumber)
	assert.Equal(t, "ana@acme.io", o.CreatedBy)
	assert.Equal(t, "A5, glossy, 200 units", o.Description)
	assert.Equal(t, []string{"#FFF", "#0A0B0C"}, []string(o.Colors))
	assert.Equal(t, StatusSubmitted, o.Status)
	assert.Equal(t, "USD", o.Currency)
	assert.Equal(t, "deadline friday", o.ClientNote)
	assert.Len(t, o.Attachments, 1)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrderTransitions.WithLabelValues("create")))
	require.Len(t, f.notifier.texts, 1)
	assert.Equal(t, []string{"https://hooks.example/acme"}, f.notifier.extra)
}

func TestCreateOrderRequiresAttachments(t *testing.T) {
	f := newFixture()
	in := validCreate()
	in.Attachments = nil
	_, err := f.svc.Create(context.Background(), creator, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in.Attachments = make([]FileInput, MaxAttachments+1)
	_, err = f.svc.Create(context.Background(), creator, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrdersAreVisibleToCreatorAndAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.svc.Create(ctx, creator, validCreate())
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, other, o.UUID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Get(ctx, admin, o.UUID)
	assert.NoError(t, err)

	foreign := admin
	foreign.Business = "globex"
	_, err = f.svc.Get(ctx, foreign, o.UUID)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := f.svc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, mine)
	all, err := f.svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// toPayable leva o pedido até admin_confirmed com orçamento.
func toPayable(t *testing.T, f fixture) Order {
	t.Helper()
	ctx := context.Background()
	o, err := f.svc.Create(ctx, creator, validCreate())
	require.NoError(t, err)
	proofs := []FileInput{{Name: "proof.pdf", MimeType: "application/pdf", Data: encoded(8)}}
	o, err = f.svc.AppendProofs(ctx, admin, o.UUID, proofs, "v1")
	require.NoError(t, err)
	o, err = f.svc.Decide(ctx, creator, o.UUID, DecisionApproved, "")
	require.NoError(t, err)
	quote := decimal.RequireFromString("120.5")
	o, err = f.svc.AdminConfirm(ctx, admin, o.UUID, ConfirmInput{Quote: &quote, Currency: "eur"})
	require.NoError(t, err)
	return o
}

func TestFullPaymentFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := toPayable(t, f)
	assert.Equal(t, PaymentReady, o.PaymentStatus)
	assert.Equal(t, "EUR", o.Currency)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"ana@acme.io"}, f.mail.sent[0].To)

	o, payment, err := f.svc.CreatePayment(ctx, creator, o.UUID)
	require.NoError(t, err)
	assert.Equal(t, "PP-1", payment.OrderID)
	assert.Equal(t, "PP-1", o.PendingPayPalOrderID)
	assert.Equal(t, "120.50", f.gateway.created[0].StringFixed(2))

	paid, err := f.svc.CapturePayment(ctx, creator, o.UUID, " PP-1 ")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, "PP-1", paid.PayPalCaptureID)
	assert.Equal(t, []string{"PP-1"}, f.gateway.captured)
}

func TestCaptureIncompleteKeepsOrderPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := toPayable(t, f)
	_, _, err := f.svc.CreatePayment(ctx, creator, o.UUID)
	require.NoError(t, err)

	f.gateway.status = "PAYER_ACTION_REQUIRED"
	_, err = f.svc.CapturePayment(ctx, creator, o.UUID, "PP-1")
	assert.ErrorIs(t, err, ErrPaymentIncomplete)

	current, err := f.svc.Get(ctx, admin, o.UUID)
	require.NoError(t, err)
	assert.Equal(t, StatusAdminConfirmed, current.Status)
	assert.Equal(t, "PP-1", current.PendingPayPalOrderID)
}

func TestCaptureRetriesAfterConcurrentWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := toPayable(t, f)
	o, _, err := f.svc.CreatePayment(ctx, creator, o.UUID)
	require.NoError(t, err)

	f.gateway.onCapture = func() { f.repo.bump(o.UUID) }
	paid, err := f.svc.CapturePayment(ctx, creator, o.UUID, "PP-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, "PP-1", paid.PayPalCaptureID)
	assert.Equal(t, o.Version+2, paid.Version)
	assert.Equal(t, []string{"PP-1"}, f.gateway.captured)
}

func TestCaptureConflictAfterCancelIsReported(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := toPayable(t, f)
	o, _, err := f.svc.CreatePayment(ctx, creator, o.UUID)
	require.NoError(t, err)

	f.gateway.onCapture = func() {
		f.repo.mu.Lock()
		defer f.repo.mu.Unlock()
		cur := f.repo.orders[o.UUID]
		cur.Status = StatusCancelled
		cur.Version++
		f.repo.orders[o.UUID] = cur
	}
	_, err = f.svc.CapturePayment(ctx, creator, o.UUID, "PP-1")
	assert.ErrorIs(t, err, ErrConflict)

	current, err := f.svc.Get(ctx, admin, o.UUID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, current.Status)
	assert.Empty(t, current.PayPalCaptureID)
}

func TestCaptureMismatchNeverCallsProvider(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := toPayable(t, f)
	_, _, err := f.svc.CreatePayment(ctx, creator, o.UUID)
	require.NoError(t, err)

	_, err = f.svc.CapturePayment(ctx, creator, o.UUID, "PP-OTHER")
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	assert.Empty(t, f.gateway.captured)
}

func TestPaymentProviderFailure(t *testing.T) {
	f := newFixture()
	o := toPayable(t, f)
	f.gateway.err = errors.New("connection reset")

	_, _, err := f.svc.CreatePayment(context.Background(), creator, o.UUID)
	assert.ErrorIs(t, err, ErrPaymentProvider)
	assert.False(t, IsClientError(err))
}

func TestCreatePaymentBlockedWithoutQuote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.svc.Create(ctx, creator, validCreate())
	require.NoError(t, err)

	_, _, err = f.svc.CreatePayment(ctx, creator, o.UUID)
	assert.ErrorIs(t, err, ErrPaymentNotReady)
	assert.Empty(t, f.gateway.created)
}

func TestStaleWriteIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.svc.Create(ctx, creator, validCreate())
	require.NoError(t, err)

	svc := f.svc.(*serviceImpl)
	current, err := svc.Get(ctx, admin, o.UUID)
	require.NoError(t, err)
	next, err := Cancel(current, admin, smNow)
	require.NoError(t, err)

	f.repo.bump(o.UUID)
	_, err = svc.commit(ctx, "cancel", current, next)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestServiceMarkPaidTwiceKeepsPaidAt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.svc.Create(ctx, creator, validCreate())
	require.NoError(t, err)

	first, err := f.svc.MarkPaid(ctx, admin, o.UUID, "paid by transfer")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, first.Status)
	assert.Equal(t, "paid by transfer", first.AdminNote)

	f.svc.(*serviceImpl).now = func() time.Time { return smNow.Add(24 * time.Hour) }
	second, err := f.svc.MarkPaid(ctx, admin, o.UUID, "again")
	require.NoError(t, err)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, *first.PaidAt, *second.PaidAt)
	assert.Equal(t, "paid by transfer", second.AdminNote)
}

func TestServiceAppendProofsByNonAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.svc.Create(ctx, creator, validCreate())
	require.NoError(t, err)

	proofs := []FileInput{{Name: "proof.pdf", MimeType: "application/pdf", Data: encoded(8)}}
	_, err = f.svc.AppendProofs(ctx, creator, o.UUID, proofs, "")
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = f.svc.AppendProofs(ctx, other, o.UUID, proofs, "")
	assert.ErrorIs(t, err, ErrNotFound)

	current, err := f.svc.Get(ctx, creator, o.UUID)
	require.NoError(t, err)
	assert.Empty(t, current.Proofs)
	assert.Equal(t, StatusSubmitted, current.Status)
	assert.Equal(t, 1, current.Version)
}
