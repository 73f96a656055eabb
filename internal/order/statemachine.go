package order

import (
	"time"

	"github.com/shopspring/decimal"

	"stockverse/internal/iam/access"
)

// As funções abaixo são as únicas que mudam status, decisão e pagamento.
// Recebem o pedido observado e devolvem o novo estado, sem tocar no banco.

func isCreator(o Order, a access.Access) bool {
	return a.Is(o.CreatedBy)
}

func clearPayment(o *Order) {
	o.QuoteAmount = decimal.NullDecimal{}
	o.PaymentLink = ""
	o.PendingPayPalOrderID = ""
	o.PayPalCaptureID = ""
	o.PaymentStatus = PaymentBlocked
}

// ApplyNote grava a nota no campo do papel do autor.
func ApplyNote(o *Order, a access.Access, note string) {
	note = ClipNote(note)
	if note == "" {
		return
	}
	if a.IsAdmin() {
		o.AdminNote = note
	} else {
		o.ClientNote = note
	}
}

func AppendProofs(o Order, a access.Access, proofs []FilePayload, now time.Time) (Order, error) {
	if !a.IsAdmin() {
		return o, ErrAdminOnly
	}
	if o.Terminal() {
		return o, ErrOrderClosed
	}
	if len(proofs) == 0 {
		return o, ErrInvalidInput
	}
	if len(o.Proofs)+len(proofs) > MaxProofs {
		return o, ErrTooManyProofs
	}
	next := append(append([]FilePayload{}, o.Proofs...), proofs...)
	o.Proofs = next
	o.Status = StatusProofsReady
	o.ClientDecision = DecisionPending
	o.PaymentStatus = PaymentBlocked
	o.PendingPayPalOrderID = ""
	o.ProofsReadyAt = &now
	return o, nil
}

func Decide(o Order, a access.Access, decision Decision, now time.Time) (Order, error) {
	if !isCreator(o, a) {
		return o, ErrCreatorOnly
	}
	if o.Status != StatusProofsReady {
		return o, ErrProofsNotReady
	}
	switch decision {
	case DecisionApproved:
		o.Status = StatusClientConfirmed
		o.ClientDecision = DecisionApproved
		o.ConfirmedAt = &now
	case DecisionRejected:
		o.Status = StatusClientRejected
		o.ClientDecision = DecisionRejected
		clearPayment(&o)
		o.RejectedAt = &now
	default:
		return o, ErrInvalidInput
	}
	return o, nil
}

// AdminConfirm fixa o orçamento opcional; pagamento fica pronto só com
// orçamento positivo.
func AdminConfirm(o Order, a access.Access, quote *decimal.Decimal, link *string, now time.Time) (Order, error) {
	if !a.IsAdmin() {
		return o, ErrAdminOnly
	}
	if o.ClientDecision != DecisionApproved ||
		(o.Status != StatusClientConfirmed && o.Status != StatusAdminConfirmed) {
		return o, ErrNotApproved
	}
	if quote != nil {
		if quote.IsNegative() {
			return o, ErrInvalidInput
		}
		o.QuoteAmount = decimal.NewNullDecimal(quote.Round(2))
	}
	if link != nil {
		o.PaymentLink = *link
	}
	o.Status = StatusAdminConfirmed
	if o.Quote().IsPositive() {
		o.PaymentStatus = PaymentReady
	} else {
		o.PaymentStatus = PaymentBlocked
	}
	o.PendingPayPalOrderID = ""
	o.PayPalCaptureID = ""
	o.AdminConfirmedAt = &now
	return o, nil
}

// CanPay confere quem pode pagar e se o pedido está pronto para cobrança.
func CanPay(o Order, a access.Access) error {
	if !isCreator(o, a) && !a.IsAdmin() {
		return ErrCreatorOrAdmin
	}
	if o.Status != StatusAdminConfirmed || o.PaymentStatus != PaymentReady || !o.Quote().IsPositive() {
		return ErrPaymentNotReady
	}
	return nil
}

func StartPayment(o Order, a access.Access, paypalOrderID string) (Order, error) {
	if err := CanPay(o, a); err != nil {
		return o, err
	}
	o.PendingPayPalOrderID = paypalOrderID
	return o, nil
}

// CanCapture exige que o pedido externo seja o pendente.
func CanCapture(o Order, a access.Access, paypalOrderID string) error {
	if !isCreator(o, a) && !a.IsAdmin() {
		return ErrCreatorOrAdmin
	}
	if o.PendingPayPalOrderID == "" || o.PendingPayPalOrderID != paypalOrderID {
		return ErrPaymentMismatch
	}
	if o.Status != StatusAdminConfirmed {
		return ErrPaymentNotReady
	}
	return nil
}

func CompletePayment(o Order, a access.Access, paypalOrderID, captureID string, now time.Time) (Order, error) {
	if err := CanCapture(o, a, paypalOrderID); err != nil {
		return o, err
	}
	o.Status = StatusPaid
	o.PaymentStatus = PaymentPaid
	o.PayPalCaptureID = captureID
	o.PendingPayPalOrderID = ""
	o.PaidAt = &now
	return o, nil
}

// MarkPaid é a baixa manual do Admin. Em pedido já pago não muda nada e
// changed volta false.
func MarkPaid(o Order, a access.Access, now time.Time) (next Order, changed bool, err error) {
	if !a.IsAdmin() {
		return o, false, ErrAdminOnly
	}
	if o.Status == StatusCancelled {
		return o, false, ErrAlreadyCancelled
	}
	if o.Status == StatusPaid {
		return o, false, nil
	}
	o.Status = StatusPaid
	o.PaymentStatus = PaymentPaid
	o.PendingPayPalOrderID = ""
	o.PaidAt = &now
	return o, true, nil
}

func Cancel(o Order, a access.Access, now time.Time) (Order, error) {
	if !isCreator(o, a) && !a.IsAdmin() {
		return o, ErrCreatorOrAdmin
	}
	if o.Terminal() {
		return o, ErrOrderClosed
	}
	o.Status = StatusCancelled
	o.ClientDecision = DecisionRejected
	clearPayment(&o)
	o.CancelledAt = &now
	return o, nil
}
