package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	"github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/pkg/apperror"
	"github.com/tillworks/checkout-api/pkg/email"
	"github.com/tillworks/checkout-api/pkg/export"
	"github.com/tillworks/checkout-api/pkg/printer"
)

// ReceiptService handles the post-completion receipt flow: print,
// download (export), email, or skip. Each disposition is independent and
// retriable, and none of them mutate the transaction. Finishing the flow
// opens a fresh cart session for the next customer.
type ReceiptService struct {
	txnRepo      repository.TransactionRepository
	sessionRepo  repository.CartSessionRepository
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	carts        *CartService
	printer      printer.Printer
	exporter     *export.Exporter
	emails       *email.EmailService
	paperWidth   int
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	txnRepo repository.TransactionRepository,
	sessionRepo repository.CartSessionRepository,
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	carts *CartService,
	prn printer.Printer,
	exporter *export.Exporter,
	emails *email.EmailService,
	paperWidth int,
) *ReceiptService {
	return &ReceiptService{
		txnRepo:      txnRepo,
		sessionRepo:  sessionRepo,
		userRepo:     userRepo,
		businessRepo: businessRepo,
		carts:        carts,
		printer:      prn,
		exporter:     exporter,
		emails:       emails,
		paperWidth:   paperWidth,
	}
}

// Compose builds the read-only receipt projection from the transaction
// and its surrounding records. Amounts are converted from cents here,
// once, for display.
func (s *ReceiptService) Compose(business *entity.Business, user *entity.User, items []entity.CartItem, txn *entity.Transaction) *entity.Receipt {
	receipt := &entity.Receipt{
		ReceiptNo:     txn.ReceiptNo,
		TransactionID: txn.ID.String(),
		Date:          txn.CreatedAt.Format("2006-01-02 15:04"),
		PaymentMethod: txn.Method.String(),
		Tendered:      float64(txn.Tendered) / 100,
		Change:        float64(txn.Change) / 100,
	}

	if business != nil {
		receipt.Header.StoreName = business.Name
		if business.Address != nil {
			receipt.Header.Address = *business.Address
		}
		if business.Phone != nil {
			receipt.Header.Phone = *business.Phone
		}
		if business.TaxID != nil {
			receipt.Header.TaxID = *business.TaxID
		}
	}
	if user != nil {
		receipt.Cashier = user.FullName()
	}

	var subTotal, tax, total int64
	for i := range items {
		item := &items[i]
		subTotal += item.SubTotal
		tax += item.Tax
		total += item.Total

		line := entity.ReceiptLine{
			Name:      item.Name,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		}
		if item.Kind == enum.ItemKindWeight {
			line.Weight = item.Weight
			line.WeightUnit = item.WeightUnit
		} else {
			line.Quantity = item.Quantity
		}
		receipt.Lines = append(receipt.Lines, line)
	}
	receipt.SubTotal = float64(subTotal) / 100
	receipt.Tax = float64(tax) / 100
	receipt.Total = float64(total) / 100

	return receipt
}

// Print renders the receipt for a recorded transaction and sends it to
// the thermal printer. Failures are reported but never reopen or mutate
// the transaction; the cashier can simply retry.
func (s *ReceiptService) Print(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.load(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	data := s.FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (receipt %s): %v", receipt.ReceiptNo, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// Export writes the receipt as a plain-text document under the configured
// storage path and returns the saved path.
func (s *ReceiptService) Export(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Receipt, string, error) {
	receipt, err := s.load(ctx, userID, transactionID)
	if err != nil {
		return nil, "", err
	}

	path, err := s.exporter.SaveDocument(receipt.ReceiptNo, []byte(RenderReceiptText(receipt)))
	if err != nil {
		return receipt, "", err
	}

	return receipt, path, nil
}

// Email sends the receipt to the given address as HTML.
func (s *ReceiptService) Email(ctx context.Context, userID, transactionID uuid.UUID, to string) (*entity.Receipt, error) {
	if to == "" {
		return nil, apperror.NewFieldError("email", "is required")
	}
	if !s.emails.IsConfigured() {
		return nil, apperror.NewBadRequestError("Email delivery is not configured")
	}

	receipt, err := s.load(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	body, err := RenderReceiptHTML(receipt)
	if err != nil {
		return receipt, err
	}

	subject := fmt.Sprintf("Your receipt %s from %s", receipt.ReceiptNo, receipt.Header.StoreName)
	if err := s.emails.SendHTML(to, subject, body); err != nil {
		log.Printf("Email error (receipt %s): %v", receipt.ReceiptNo, err)
		return receipt, fmt.Errorf("failed to email receipt: %w", err)
	}

	return receipt, nil
}

// Finish ends the receipt flow and opens a fresh cart session for the
// next customer. Safe to call regardless of which disposition (if any)
// was taken.
func (s *ReceiptService) Finish(ctx context.Context, userID, businessID uuid.UUID) (*entity.CartSession, error) {
	return s.carts.GetOrCreateSession(ctx, userID, businessID)
}

// load rebuilds the receipt projection for a transaction the user owns.
func (s *ReceiptService) load(ctx context.Context, userID, transactionID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if txn.UserID != userID && !user.Role.IsAdmin() {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	session, err := s.sessionRepo.GetWithItems(ctx, txn.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cart session")
	}

	cashier := user
	if txn.UserID != userID {
		cashier, err = s.userRepo.GetByID(ctx, txn.UserID)
		if err != nil {
			return nil, err
		}
	}

	business, err := s.businessRepo.GetByID(ctx, txn.BusinessID)
	if err != nil {
		return nil, err
	}

	return s.Compose(business, cashier, session.Items, txn), nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func (s *ReceiptService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.paperWidth)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, line := range r.Lines {
		if line.WeightUnit != "" {
			doc.WeightLine(line.Weight, line.WeightUnit, line.Name, fmt.Sprintf("%.2f", line.Total))
			doc.TextF("  @ %.2f/%s", line.UnitPrice, line.WeightUnit)
			continue
		}
		doc.ItemLine(line.Quantity, line.Name, fmt.Sprintf("%.2f", line.Total))
		if line.Quantity > 1 {
			doc.TextF("  @ %.2f each", line.UnitPrice)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Tax > 0 {
		doc.KeyValue("Tax:", fmt.Sprintf("%.2f", r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Tendered > 0 {
		doc.KeyValue("Tendered:", fmt.Sprintf("%.2f", r.Tendered))
		doc.KeyValue("Change:", fmt.Sprintf("%.2f", r.Change))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// RenderReceiptText renders a plain-text receipt for export/download.
func RenderReceiptText(r *entity.Receipt) string {
	const width = 40
	var b strings.Builder

	center := func(s string) {
		if pad := (width - len(s)) / 2; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(s + "\n")
	}
	row := func(left, right string) {
		gap := width - len(left) - len(right)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
	}
	rule := func() { b.WriteString(strings.Repeat("-", width) + "\n") }

	center(r.Header.StoreName)
	if r.Header.Address != "" {
		center(r.Header.Address)
	}
	if r.Header.Phone != "" {
		center(r.Header.Phone)
	}
	rule()
	row("Receipt:", r.ReceiptNo)
	row("Date:", r.Date)
	if r.Cashier != "" {
		row("Cashier:", r.Cashier)
	}
	row("Payment:", r.PaymentMethod)
	rule()
	for _, line := range r.Lines {
		if line.WeightUnit != "" {
			row(fmt.Sprintf("%.3f%s %s", line.Weight, line.WeightUnit, line.Name), fmt.Sprintf("%.2f", line.Total))
		} else {
			row(fmt.Sprintf("%dx %s", line.Quantity, line.Name), fmt.Sprintf("%.2f", line.Total))
		}
	}
	rule()
	row("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	row("Tax:", fmt.Sprintf("%.2f", r.Tax))
	row("TOTAL:", fmt.Sprintf("%.2f", r.Total))
	if r.Tendered > 0 {
		row("Tendered:", fmt.Sprintf("%.2f", r.Tendered))
		row("Change:", fmt.Sprintf("%.2f", r.Change))
	}
	rule()
	center("Thank you for shopping with us!")

	return b.String()
}

var receiptEmailTmpl = template.Must(template.New("receipt").Parse(`
<div style="font-family: monospace; max-width: 420px; margin: 0 auto;">
  <h2 style="text-align: center;">{{.Header.StoreName}}</h2>
  {{if .Header.Address}}<p style="text-align: center;">{{.Header.Address}}</p>{{end}}
  <p>Receipt: <strong>{{.ReceiptNo}}</strong><br>
     Date: {{.Date}}<br>
     {{if .Cashier}}Cashier: {{.Cashier}}<br>{{end}}
     Payment: {{.PaymentMethod}}</p>
  <table style="width: 100%; border-collapse: collapse;">
    {{range .Lines}}
    <tr>
      <td>{{if .WeightUnit}}{{printf "%.3f" .Weight}}{{.WeightUnit}}{{else}}{{.Quantity}}x{{end}} {{.Name}}</td>
      <td style="text-align: right;">{{printf "%.2f" .Total}}</td>
    </tr>
    {{end}}
    <tr><td>Subtotal</td><td style="text-align: right;">{{printf "%.2f" .SubTotal}}</td></tr>
    <tr><td>Tax</td><td style="text-align: right;">{{printf "%.2f" .Tax}}</td></tr>
    <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{printf "%.2f" .Total}}</strong></td></tr>
    {{if gt .Tendered 0.0}}
    <tr><td>Tendered</td><td style="text-align: right;">{{printf "%.2f" .Tendered}}</td></tr>
    <tr><td>Change</td><td style="text-align: right;">{{printf "%.2f" .Change}}</td></tr>
    {{end}}
  </table>
  <p style="text-align: center;">Thank you for shopping with us!</p>
</div>
`))

// RenderReceiptHTML renders the email body for a receipt.
func RenderReceiptHTML(r *entity.Receipt) (string, error) {
	var buf bytes.Buffer
	if err := receiptEmailTmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render receipt email: %w", err)
	}
	return buf.String(), nil
}
