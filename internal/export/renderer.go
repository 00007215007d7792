// Package export renders a fully populated LPO into a printable plain-text
// document. Callers treat the rendered output as opaque.
package export

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/procurehq/lpoflow/internal/domain"
)

const documentTemplate = `LOCAL PURCHASE ORDER {{.Lpo.LpoNumber}}
Date: {{.Lpo.DateCreated.Format "02 Jan 2006"}}
Vendor: {{.Lpo.VendorName}}
Status: {{.Lpo.Status}} / {{.Lpo.PaymentStatus}}

ITEMS
{{range .Lpo.Items}}  {{.Description}}  x{{.Quantity}} @ {{.UnitPrice.StringFixed 2}} = {{.TotalPrice.StringFixed 2}}
{{end}}
Subtotal: {{.Lpo.TotalAmount.StringFixed 2}}
{{- if .HasMarkup}}
Additional ({{.Lpo.AdditionalPercentage.StringFixed 2}}%): {{.Markup.StringFixed 2}}
{{- end}}
Total: {{.GrandTotal.StringFixed 2}}
{{- if .Lpo.AdditionalNotes}}

Notes: {{.Lpo.AdditionalNotes}}
{{- end}}
`

var tmpl = template.Must(template.New("lpo").Parse(documentTemplate))

// Render produces the document for an LPO whose items and vendor name are
// already resolved.
func Render(lpo *domain.Lpo) ([]byte, error) {
	grand := lpo.GrandTotal()
	data := struct {
		Lpo        *domain.Lpo
		HasMarkup  bool
		Markup     decimal.Decimal
		GrandTotal decimal.Decimal
	}{
		Lpo:        lpo,
		HasMarkup:  lpo.AdditionalPercentage.Sign() > 0,
		Markup:     grand.Sub(lpo.TotalAmount),
		GrandTotal: grand,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render lpo document: %w", err)
	}
	return buf.Bytes(), nil
}
