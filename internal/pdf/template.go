package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/orcafacil/api/internal/domain"
)

// InvoiceDocument bundles everything the invoice template needs.
type InvoiceDocument struct {
	Account   *domain.Account
	Customer  *domain.Customer
	Invoice   *domain.Invoice
	Materials []domain.Material
	Equipment []domain.Equipment
}

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("R$ %.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; border-bottom: 2px solid #222; padding-bottom: .3em; }
table { width: 100%; border-collapse: collapse; margin: 1em 0; }
th, td { text-align: left; padding: .4em .6em; border-bottom: 1px solid #ccc; }
.total { font-size: 1.2em; font-weight: bold; text-align: right; }
</style>
</head>
<body>
<h1>Orçamento — {{.Account.Name}}</h1>
<p>Cliente: {{.Customer.Name}}<br>
{{.Customer.Address.Street}}, {{.Customer.Address.Number}} — {{.Customer.Address.City}}/{{.Customer.Address.State}}<br>
Data: {{.Invoice.Date.Format "02/01/2006"}} — Imóvel: {{.Invoice.PropertyType}}</p>
{{with .Invoice.Description}}<p>{{.}}</p>{{end}}

{{if .Invoice.Labor}}
<h2>Mão de obra</h2>
<table>
<tr><th>Serviço</th><th>Horas</th><th>Valor</th></tr>
{{range .Invoice.Labor}}<tr><td>{{.Name}}</td><td>{{.Hours}}</td><td>{{money .Price}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Materials}}
<h2>Materiais</h2>
<table>
<tr><th>Material</th><th>Qtde</th><th>Valor</th></tr>
{{range .Materials}}<tr><td>{{.Name}}</td><td>{{.Count}}</td><td>{{money .Price}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Equipment}}
<h2>Equipamentos</h2>
<table>
<tr><th>Equipamento</th><th>Qtde</th><th>Valor</th></tr>
{{range .Equipment}}<tr><td>{{.Name}}</td><td>{{.Count}}</td><td>{{money .Price}}</td></tr>
{{end}}
</table>
{{end}}

<p class="total">Total: {{money .Invoice.Total}}</p>
</body>
</html>`))

// BuildInvoiceHTML renders the printable invoice document.
func BuildInvoiceHTML(doc InvoiceDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("build invoice html: %w", err)
	}
	return buf.Bytes(), nil
}
