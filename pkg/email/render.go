package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
)

// ContactTemplateName is the HTML template rendered for contact notifications.
const ContactTemplateName = "email_contact.html"

// TimestampLayout renders local time as DD/MM/YYYY HH:MM:SS.
const TimestampLayout = "02/01/2006 15:04:05"

//go:embed templates/email_contact.html
var templateFS embed.FS

var embeddedContactTemplate = template.Must(
	template.New(ContactTemplateName).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+ContactTemplateName),
)

// templateFuncs is the sprig HTML func map plus helpers for the contact template.
func templateFuncs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["initial"] = initial
	return funcs
}

// initial returns the first letter of s, upper-cased, or "" for a blank string.
func initial(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	Name    string
	Email   string
	Phone   string // empty when not provided
	Message string
}

type contactTemplateData struct {
	ContactEmailData
	Timestamp string
}

// Renderer produces the plaintext and HTML bodies of a contact notification.
type Renderer struct {
	// templateDir overrides the embedded template when set. The file is read on every
	// render so a missing or broken template surfaces as a delivery failure.
	templateDir string
}

// NewRenderer returns a renderer; an empty dir selects the embedded template.
func NewRenderer(templateDir string) *Renderer {
	return &Renderer{templateDir: templateDir}
}

// FormatTimestamp formats t in local time for the notification bodies.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// Text renders the fixed line-oriented plaintext body.
// The phone line is present only when a phone number was given.
func (r *Renderer) Text(data ContactEmailData, timestamp string) string {
	var b strings.Builder
	b.WriteString("\nHai ricevuto un nuovo messaggio dal form di contatto del portfolio.\n\n")
	b.WriteString("Dettagli:\n---------\n")
	fmt.Fprintf(&b, "Nome: %s\n", data.Name)
	fmt.Fprintf(&b, "Email: %s\n", data.Email)
	if data.Phone != "" {
		fmt.Fprintf(&b, "Telefono: %s\n", data.Phone)
	}
	fmt.Fprintf(&b, "Data/Ora: %s\n\n", timestamp)
	b.WriteString("Messaggio:\n----------\n")
	b.WriteString(data.Message)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Puoi rispondere direttamente a questa email per contattare %s all'indirizzo: %s\n", data.Name, data.Email)
	return b.String()
}

// HTML renders the named HTML template with the submission fields and timestamp.
func (r *Renderer) HTML(data ContactEmailData, timestamp string) (string, error) {
	tmpl, err := r.template()
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, ContactTemplateName, contactTemplateData{
		ContactEmailData: data,
		Timestamp:        timestamp,
	}); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (r *Renderer) template() (*template.Template, error) {
	if r.templateDir == "" {
		return embeddedContactTemplate, nil
	}
	tmpl, err := template.New(ContactTemplateName).
		Funcs(templateFuncs()).
		ParseFiles(filepath.Join(r.templateDir, ContactTemplateName))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return tmpl, nil
}
