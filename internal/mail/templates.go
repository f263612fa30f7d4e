package mail

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"github.com/vse-rental/storefront/internal/models"
)

const noDescription = "No description"

var (
	subjectTemplates = map[models.SubmissionKind]*template.Template{
		models.KindContact: template.Must(template.New("contact-subject").Parse(
			`New callback request from {{.Name}}`)),
		models.KindOrder: template.Must(template.New("order-subject").Parse(
			`New request: {{.ProductName}}`)),
	}

	textTemplates = map[models.SubmissionKind]*template.Template{
		models.KindContact: template.Must(template.New("contact-text").Parse(
			`Name: {{.Name}}
Phone: {{.Phone}}
Description: {{.Description}}
`)),
		models.KindOrder: template.Must(template.New("order-text").Parse(
			`Name: {{.Name}}
Phone: {{.Phone}}
Product: {{.ProductName}}
Price: {{.Price}}
Time: {{.Time}}
{{- if .ImageURL}}
Image: {{.ImageURL}}
{{- end}}
Description: {{.Description}}
`)),
	}

	htmlTemplates = map[models.SubmissionKind]*htmltemplate.Template{
		models.KindContact: htmltemplate.Must(htmltemplate.New("contact-html").Parse(
			`<h2>New callback request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
`)),
		models.KindOrder: htmltemplate.Must(htmltemplate.New("order-html").Parse(
			`<h2>New product order</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Time:</strong> {{.Time}}</p>
<p><strong>Product:</strong> {{.ProductName}}</p>
<p><strong>Price:</strong> {{.Price}}</p>
{{- if .ImageSrc}}
<img src="{{.ImageSrc}}" alt="Product image" width="200" />
{{- else if .ImageURL}}
<p><a href="{{.ImageURL}}">Product image</a></p>
{{- end}}
<p><strong>Description:</strong> {{.Description}}</p>
`)),
	}
)

// view is the data every template renders from
type view struct {
	Name        string
	Phone       string
	ProductName string
	Price       string
	Time        string
	Description string
	ImageURL    string
	// ImageSrc is set only when the image was embedded
	ImageSrc htmltemplate.URL
}

func newView(p models.EmailPayload) view {
	v := view{
		Name:        p.Name,
		Phone:       p.Phone,
		ProductName: p.ProductName,
		Price:       p.Price,
		Time:        p.Time,
		Description: p.Description,
		ImageURL:    p.Image,
	}
	if v.Description == "" {
		v.Description = noDescription
	}
	return v
}

// cidURL references an inline part from the HTML body
func cidURL(cid string) htmltemplate.URL {
	return htmltemplate.URL("cid:" + cid)
}

type rendered struct {
	subject string
	text    string
	html    string
}

func render(kind models.SubmissionKind, v view) (rendered, error) {
	var out rendered
	var buf bytes.Buffer

	if err := subjectTemplates[kind].Execute(&buf, v); err != nil {
		return out, err
	}
	out.subject = buf.String()
	buf.Reset()

	if err := textTemplates[kind].Execute(&buf, v); err != nil {
		return out, err
	}
	out.text = buf.String()
	buf.Reset()

	if err := htmlTemplates[kind].Execute(&buf, v); err != nil {
		return out, err
	}
	out.html = buf.String()
	return out, nil
}
