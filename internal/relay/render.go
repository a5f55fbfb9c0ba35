package relay

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/pkg/types"
)

const placeholder = "—"

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"dash": func(v string) string {
		if strings.TrimSpace(v) == "" {
			return placeholder
		}
		return v
	},
	"join": strings.Join,
}

var cateringTmpl = template.Must(template.New("catering").Funcs(funcs).Parse(`
<h2>New Catering Request</h2>
<h3>Package</h3>
<p><strong>{{.Package}}</strong></p>
{{if .Weight}}<p><strong>Weight (kg):</strong> {{money .Weight.Value}}</p>{{end}}
{{if .BaseItems}}<h3>Base Items</h3>
<ul>{{range .BaseItems}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Steps}}<h3>Selections</h3>
{{range .Steps}}<p><strong>{{.Title}}</strong><br/>{{if .Selections}}{{join .Selections ", "}}{{else}}—{{end}}</p>
{{end}}{{end}}
{{if not .IsWeight}}<h3>Eco Option</h3>
<p>{{if .IncludeAddOn}}Yes (+${{money .AddOnFee}}/person){{else}}No{{end}}</p>{{end}}
<h3>Pricing Summary</h3>
<p>
{{if not .IsWeight}}Per Person: <strong>${{money .PerPerson}}</strong><br/>{{end}}
Subtotal: ${{money .Subtotal}}<br/>
{{if .Tax}}Tax: ${{money .Tax.Value}}<br/>{{end}}
<strong>Total: ${{money .GrandTotal}}</strong>
</p>
<h3>Client Info</h3>
<p>
<strong>Name:</strong> {{dash .Form.FullName}}<br/>
<strong>Phone:</strong> {{dash .Form.Phone}}<br/>
<strong>Email:</strong> {{dash .Form.Email}}<br/>
<strong>Event Type / Location:</strong> {{dash .Form.EventType}}<br/>
<strong>Date of Event:</strong> {{dash .Form.Date}}<br/>
<strong>Party Size:</strong> {{.PartySize}}<br/>
<strong>Message:</strong> {{dash .Form.Message}}
</p>
`))

var contactTmpl = template.Must(template.New("contact").Funcs(funcs).Parse(`
<h2>New Contact Request</h2>
<p>
<strong>Name:</strong> {{.FullName}}<br/>
<strong>Email:</strong> {{.Email}}<br/>
<strong>Phone:</strong> {{.Phone}}<br/>
<strong>Date / Time:</strong> {{.DateTime}}<br/>
<strong>People:</strong> {{.People}}<br/>
<strong>Instructions:</strong> {{dash .Instructions}}
</p>
`))

type optionalDecimal struct{ Value decimal.Decimal }

type cateringView struct {
	types.CateringRequest
	IsWeight  bool
	Weight    *optionalDecimal
	Tax       *optionalDecimal
	PartySize string
}

// RenderCatering produces the HTML body for a catering order. Every
// customer-supplied value is escaped by html/template.
func RenderCatering(req types.CateringRequest) (string, error) {
	view := cateringView{CateringRequest: req, IsWeight: req.IsWeightOrder(), PartySize: placeholder}
	if view.IsWeight && req.Form.WeightKg != nil {
		view.Weight = &optionalDecimal{Value: *req.Form.WeightKg}
	}
	if req.Tax != nil && req.Tax.IsPositive() {
		view.Tax = &optionalDecimal{Value: *req.Tax}
	}
	if req.Form.PartySize != nil {
		view.PartySize = fmt.Sprint(*req.Form.PartySize)
	}
	var buf bytes.Buffer
	if err := cateringTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render catering email: %w", err)
	}
	return buf.String(), nil
}

func RenderContact(req types.ContactRequest) (string, error) {
	var buf bytes.Buffer
	if err := contactTmpl.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render contact email: %w", err)
	}
	return buf.String(), nil
}

// CateringSubject names the package and the customer, or "Unknown" without a name.
func CateringSubject(req types.CateringRequest) string {
	name := strings.TrimSpace(req.Form.FullName)
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("New Catering Request — %s — %s", req.Package, name)
}

func ContactSubject(req types.ContactRequest) string {
	return fmt.Sprintf("New Contact Request — %s", strings.TrimSpace(req.FullName))
}
