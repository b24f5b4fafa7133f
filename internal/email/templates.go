package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	texttpl "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

const (
	TemplateInvite        = "staff_invite"
	TemplateBookingConf   = "booking_confirmation"
	TemplateReviewRequest = "review_request"
)

type InviteVars struct {
	BusinessName string
	InviteeName  string
	Role         string
	Link         string
	TTL          string
}

type BookingVars struct {
	BusinessName string
	CustomerName string
	ServiceName  string
	StartsAt     string
	TotalDisplay string
}

type ReviewVars struct {
	BusinessName string
	CustomerName string
	ServiceName  string
	Link         string
}

// Templates son los templates transaccionales ya parseados (embebidos en
// el binario; no hay carga por tenant).
type Templates struct {
	html *template.Template
	text *texttpl.Template
}

func LoadTemplates() (*Templates, error) {
	h, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("email: parse html templates: %w", err)
	}
	t, err := texttpl.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("email: parse text templates: %w", err)
	}
	return &Templates{html: h, text: t}, nil
}

// Render devuelve el par (html, text) del template con las vars dadas.
func (t *Templates) Render(name string, vars any) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := t.html.ExecuteTemplate(&hb, name+".html", vars); err != nil {
		return "", "", fmt.Errorf("email: render %s.html: %w", name, err)
	}
	if err := t.text.ExecuteTemplate(&tb, name+".txt", vars); err != nil {
		return "", "", fmt.Errorf("email: render %s.txt: %w", name, err)
	}
	return hb.String(), tb.String(), nil
}
