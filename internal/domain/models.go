package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the authenticated principal creating LPOs.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Vendor is a supplier referenced by LPOs. Bank fields are optional.
type Vendor struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	Address       string    `json:"address" db:"address"`
	BankName      *string   `json:"bank_name,omitempty" db:"bank_name"`
	AccountNumber *string   `json:"account_number,omitempty" db:"account_number"`
	AccountName   *string   `json:"account_name,omitempty" db:"account_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// LpoItem is a single line on an LPO. TotalPrice is always derived from
// quantity and unit price; it is never set independently.
type LpoItem struct {
	ID          string          `json:"id" db:"id"`
	LpoID       string          `json:"lpo_id" db:"lpo_id"`
	Description string          `json:"description" db:"description"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price" db:"total_price"`
}

// Recalculate refreshes TotalPrice from quantity and unit price.
func (i *LpoItem) Recalculate() {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LpoPayment is one recorded payment against an LPO.
type LpoPayment struct {
	ID        string          `json:"id" db:"id"`
	LpoID     string          `json:"lpo_id" db:"lpo_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	Reference string          `json:"reference" db:"reference"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Lpo is a Local Purchase Order. TotalAmount is a snapshot of the item base
// total taken at submission; it is not recomputed when items change later.
// VendorName is resolved by join at read time, never stored on the row.
type Lpo struct {
	ID                   string          `json:"id" db:"id"`
	LpoNumber            string          `json:"lpo_number" db:"lpo_number"`
	VendorID             string          `json:"vendor_id" db:"vendor_id"`
	VendorName           string          `json:"vendor_name" db:"vendor_name"`
	DateCreated          time.Time       `json:"date_created" db:"date_created"`
	CreatedBy            string          `json:"created_by" db:"created_by"`
	Status               LpoStatus       `json:"status" db:"status"`
	PaymentStatus        PaymentStatus   `json:"payment_status" db:"payment_status"`
	TotalAmount          decimal.Decimal `json:"total_amount" db:"total_amount"`
	AdditionalPercentage decimal.Decimal `json:"additional_percentage" db:"additional_percentage"`
	AdditionalNotes      *string         `json:"additional_notes,omitempty" db:"additional_notes"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
	Items                []LpoItem       `json:"items" db:"-"`
	Payments             []LpoPayment    `json:"payments,omitempty" db:"-"`
}

// GrandTotal returns the snapshot total plus the percentage markup.
func (l *Lpo) GrandTotal() decimal.Decimal {
	markup := l.TotalAmount.Mul(l.AdditionalPercentage).Div(decimal.NewFromInt(100))
	return l.TotalAmount.Add(markup)
}

// PaidAmount sums the recorded payments.
func (l *Lpo) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Reminder is a standalone dated note, unrelated to any LPO.
type Reminder struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Date      string    `json:"date" db:"date"`
	Time      string    `json:"time" db:"time"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Report is a write-once record of an emailed report. Never mutated.
type Report struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Type       string    `json:"type" db:"type"`
	Recipients []string  `json:"recipients" db:"-"`
	DateSent   time.Time `json:"date_sent" db:"date_sent"`
}
