package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/mayankmishra0403/printhub/internal/domain/model"
)

const (
	SubjectVerification = "Verify your email - PrintHub"
	brand               = "PrintHub"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;background:#f6f7fb;padding:24px">
<div style="max-width:560px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
<h2 style="color:#4f46e5;margin-top:0">{{.Brand}}</h2>
{{.Body}}
<p style="color:#888;font-size:12px">This is an automated message from {{.Brand}}.</p>
</div></body></html>`))

var (
	verificationBody = template.Must(template.New("verification").Parse(
		`<p>Your verification code is:</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:6px">{{.Code}}</p>
<p>The code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>`))

	orderBody = template.Must(template.New("order").Parse(
		`<p>Hi {{.FullName}},</p>
<p>We received your order <b>{{.ID}}</b>.</p>
<table>
<tr><td>Service</td><td>{{.ServiceType}}</td></tr>
{{if .NumberOfPages}}<tr><td>Pages</td><td>{{.NumberOfPages}}</td></tr>{{end}}
<tr><td>Paper</td><td>{{.PaperType}}</td></tr>
{{if .IsEmergency}}<tr><td>Priority</td><td>Emergency</td></tr>{{end}}
<tr><td>Total</td><td>&#8377;{{.TotalAmount.StringFixed 2}}</td></tr>
</table>`))

	statusBody = template.Must(template.New("status").Parse(
		`<p>Hi {{.FullName}},</p>
<p>Your order <b>{{.ID}}</b> is now <b>{{.OrderStatus}}</b>.</p>`))
)

func render(body *template.Template, data any) (string, error) {
	var inner bytes.Buffer
	if err := body.Execute(&inner, data); err != nil {
		return "", err
	}
	var out bytes.Buffer
	err := layout.Execute(&out, struct {
		Brand string
		Body  template.HTML
	}{brand, template.HTML(inner.String())})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func VerificationMessage(to, code string, ttl time.Duration) (Message, error) {
	minutes := int(ttl.Minutes())
	html, err := render(verificationBody, struct {
		Code    string
		Minutes int
	}{code, minutes})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: SubjectVerification,
		Text:    fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", brand, code, minutes),
		HTML:    html,
	}, nil
}

func OrderConfirmationMessage(o model.Order) (Message, error) {
	html, err := render(orderBody, o)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      o.Email,
		Subject: fmt.Sprintf("Order received - %s", brand),
		Text: fmt.Sprintf("Hi %s, we received your order %s for %s. Total: INR %s.",
			o.FullName, o.ID, o.ServiceType, o.TotalAmount.StringFixed(2)),
		HTML: html,
	}, nil
}

func StatusUpdateMessage(o model.Order) (Message, error) {
	html, err := render(statusBody, o)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      o.Email,
		Subject: fmt.Sprintf("Order %s - %s", o.OrderStatus, brand),
		Text:    fmt.Sprintf("Hi %s, your order %s is now %s.", o.FullName, o.ID, o.OrderStatus),
		HTML:    html,
	}, nil
}
