package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockverse/internal/iam/access"
	iam "stockverse/internal/iam/domain/model"
)

var (
	admin   = access.Access{Business: "acme", Email: "boss@acme.io", Role: iam.RoleAdmin}
	creator = access.Access{Business: "acme", Email: "ana@acme.io", Role: iam.RoleGuest}
	other   = access.Access{Business: "acme", Email: "bob@acme.io", Role: iam.RoleManager}

	smNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func submitted() Order {
	return Order{
		OrderNumber:    "ORD-20240301-ABC123",
		Business:       "acme",
		CreatedBy:      "ana@acme.io",
		Status:         StatusSubmitted,
		ClientDecision: DecisionPending,
		PaymentStatus:  PaymentBlocked,
		Version:        1,
	}
}

func proof() []FilePayload {
	return []FilePayload{{Name: "proof.pdf", MimeType: "application/pdf", Size: 3}}
}

type tuple struct {
	Status   Status
	Decision Decision
	Payment  PaymentStatus
}

func tupleOf(o Order) tuple {
	return tuple{o.Status, o.ClientDecision, o.PaymentStatus}
}

var allowedTuples = map[tuple]bool{
	{StatusSubmitted, DecisionPending, PaymentBlocked}:        true,
	{StatusProofsReady, DecisionPending, PaymentBlocked}:      true,
	{StatusClientConfirmed, DecisionApproved, PaymentBlocked}: true,
	{StatusClientRejected, DecisionRejected, PaymentBlocked}:  true,
	{StatusAdminConfirmed, DecisionApproved, PaymentBlocked}:  true,
	{StatusAdminConfirmed, DecisionApproved, PaymentReady}:    true,
	{StatusPaid, DecisionPending, PaymentPaid}:                true,
	{StatusPaid, DecisionApproved, PaymentPaid}:               true,
	{StatusPaid, DecisionRejected, PaymentPaid}:               true,
	{StatusCancelled, DecisionRejected, PaymentBlocked}:       true,
}

// actions lista todas as ações com todos os atores e entradas de teste.
func actions() map[string]func(Order) (Order, error) {
	quote := decimal.RequireFromString("25.50")
	zero := decimal.Zero
	acts := map[string]func(Order) (Order, error){}
	for _, a := range []access.Access{admin, creator, other} {
		a := a
		acts["proofs/"+a.Email] = func(o Order) (Order, error) { return AppendProofs(o, a, proof(), smNow) }
		acts["approve/"+a.Email] = func(o Order) (Order, error) { return Decide(o, a, DecisionApproved, smNow) }
		acts["reject/"+a.Email] = func(o Order) (Order, error) { return Decide(o, a, DecisionRejected, smNow) }
		acts["confirm/"+a.Email] = func(o Order) (Order, error) { return AdminConfirm(o, a, &quote, nil, smNow) }
		acts["confirm-zero/"+a.Email] = func(o Order) (Order, error) { return AdminConfirm(o, a, &zero, nil, smNow) }
		acts["confirm-keep/"+a.Email] = func(o Order) (Order, error) { return AdminConfirm(o, a, nil, nil, smNow) }
		acts["pay/"+a.Email] = func(o Order) (Order, error) { return StartPayment(o, a, "PP-1") }
		acts["capture/"+a.Email] = func(o Order) (Order, error) { return CompletePayment(o, a, "PP-1", "CAP-1", smNow) }
		acts["mark-paid/"+a.Email] = func(o Order) (Order, error) {
			next, _, err := MarkPaid(o, a, smNow)
			return next, err
		}
		acts["cancel/"+a.Email] = func(o Order) (Order, error) { return Cancel(o, a, smNow) }
	}
	return acts
}

func stateKey(o Order) string {
	return fmt.Sprintf("%v|%s|%s|%d", tupleOf(o), o.Quote().String(), o.PendingPayPalOrderID, len(o.Proofs))
}

func TestReachableTuplesStayInTransitionTable(t *testing.T) {
	seen := map[string]bool{}
	reached := map[tuple]bool{}
	queue := []Order{submitted()}
	acts := actions()

	for len(queue) > 0 {
		o := queue[0]
		queue = queue[1:]
		key := stateKey(o)
		if seen[key] {
			continue
		}
		seen[key] = true
		reached[tupleOf(o)] = true
		require.Truef(t, allowedTuples[tupleOf(o)], "tuple fora da tabela: %v", tupleOf(o))

		for name, act := range acts {
			next, err := act(o)
			if err != nil {
				assert.Equalf(t, tupleOf(o), tupleOf(next), "%s alterou o pedido apesar do erro", name)
				continue
			}
			// provas acumulam até MaxProofs, o resto do estado é finito
			if len(next.Proofs) > 2 {
				continue
			}
			queue = append(queue, next)
		}
	}

	assert.Equal(t, len(allowedTuples), len(reached))
}

func TestRejectClearsQuoteAndBlocksPayment(t *testing.T) {
	o := submitted()
	o.Status = StatusProofsReady
	o.QuoteAmount = decimal.NewNullDecimal(decimal.RequireFromString("40"))
	o.PaymentLink = "https://pay.example/x"

	next, err := Decide(o, creator, DecisionRejected, smNow)
	require.NoError(t, err)
	assert.Equal(t, StatusClientRejected, next.Status)
	assert.Equal(t, DecisionRejected, next.ClientDecision)
	assert.Equal(t, PaymentBlocked, next.PaymentStatus)
	assert.False(t, next.QuoteAmount.Valid)
	assert.Empty(t, next.PaymentLink)
	assert.Equal(t, &smNow, next.RejectedAt)
}

func TestAppendProofsByNonAdminDoesNotMutate(t *testing.T) {
	o := submitted()
	for _, a := range []access.Access{creator, other} {
		next, err := AppendProofs(o, a, proof(), smNow)
		assert.ErrorIs(t, err, ErrAdminOnly)
		assert.Empty(t, next.Proofs)
		assert.Equal(t, StatusSubmitted, next.Status)
	}
}

func TestAppendProofsResetsReview(t *testing.T) {
	o := submitted()
	o.Status = StatusAdminConfirmed
	o.ClientDecision = DecisionApproved
	o.PaymentStatus = PaymentReady
	o.PendingPayPalOrderID = "PP-9"

	next, err := AppendProofs(o, admin, proof(), smNow)
	require.NoError(t, err)
	assert.Equal(t, StatusProofsReady, next.Status)
	assert.Equal(t, DecisionPending, next.ClientDecision)
	assert.Equal(t, PaymentBlocked, next.PaymentStatus)
	assert.Empty(t, next.PendingPayPalOrderID)
	assert.Len(t, next.Proofs, 1)
	assert.Empty(t, o.Proofs)
}

func TestAppendProofsLimit(t *testing.T) {
	o := submitted()
	o.Proofs = make([]FilePayload, MaxProofs)
	_, err := AppendProofs(o, admin, proof(), smNow)
	assert.ErrorIs(t, err, ErrTooManyProofs)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDecideRequiresCreatorAndProofs(t *testing.T) {
	o := submitted()
	_, err := Decide(o, creator, DecisionApproved, smNow)
	assert.ErrorIs(t, err, ErrProofsNotReady)

	o.Status = StatusProofsReady
	_, err = Decide(o, admin, DecisionApproved, smNow)
	assert.ErrorIs(t, err, ErrCreatorOnly)

	_, err = Decide(o, creator, DecisionPending, smNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminConfirmPaymentReadiness(t *testing.T) {
	o := submitted()
	o.Status = StatusClientConfirmed
	o.ClientDecision = DecisionApproved

	quote := decimal.RequireFromString("19.999")
	next, err := AdminConfirm(o, admin, &quote, nil, smNow)
	require.NoError(t, err)
	assert.Equal(t, PaymentReady, next.PaymentStatus)
	assert.Equal(t, "20.00", next.Quote().StringFixed(2))

	next, err = AdminConfirm(o, admin, nil, nil, smNow)
	require.NoError(t, err)
	assert.Equal(t, StatusAdminConfirmed, next.Status)
	assert.Equal(t, PaymentBlocked, next.PaymentStatus)

	neg := decimal.RequireFromString("-1")
	_, err = AdminConfirm(o, admin, &neg, nil, smNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCaptureRequiresPendingPayment(t *testing.T) {
	o := submitted()
	o.Status = StatusAdminConfirmed
	o.ClientDecision = DecisionApproved
	o.PaymentStatus = PaymentReady
	o.QuoteAmount = decimal.NewNullDecimal(decimal.RequireFromString("10"))

	_, err := CompletePayment(o, creator, "PP-1", "CAP-1", smNow)
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	o, err = StartPayment(o, creator, "PP-1")
	require.NoError(t, err)
	_, err = CompletePayment(o, creator, "PP-2", "CAP-1", smNow)
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	_, err = CompletePayment(o, other, "PP-1", "CAP-1", smNow)
	assert.ErrorIs(t, err, ErrCreatorOrAdmin)

	paid, err := CompletePayment(o, creator, "PP-1", "CAP-1", smNow)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, "CAP-1", paid.PayPalCaptureID)
	assert.Empty(t, paid.PendingPayPalOrderID)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	o := submitted()
	o.Status = StatusClientConfirmed
	o.ClientDecision = DecisionApproved

	first, changed, err := MarkPaid(o, admin, smNow)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, DecisionApproved, first.ClientDecision)

	later := smNow.Add(time.Hour)
	second, changed, err := MarkPaid(first, admin, later)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, smNow, *second.PaidAt)

	_, _, err = MarkPaid(o, creator, smNow)
	assert.ErrorIs(t, err, ErrAdminOnly)

	cancelled, err := Cancel(o, creator, smNow)
	require.NoError(t, err)
	_, _, err = MarkPaid(cancelled, admin, smNow)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelTerminal(t *testing.T) {
	o := submitted()
	_, err := Cancel(o, other, smNow)
	assert.ErrorIs(t, err, ErrCreatorOrAdmin)

	cancelled, err := Cancel(o, admin, smNow)
	require.NoError(t, err)
	_, err = Cancel(cancelled, admin, smNow)
	assert.ErrorIs(t, err, ErrOrderClosed)
}

func TestApplyNoteByRole(t *testing.T) {
	o := submitted()
	ApplyNote(&o, admin, " print on matte ")
	ApplyNote(&o, creator, "thanks")
	ApplyNote(&o, creator, "   ")
	assert.Equal(t, "print on matte", o.AdminNote)
	assert.Equal(t, "thanks", o.ClientNote)
}
