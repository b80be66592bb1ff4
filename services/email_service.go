package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/model"
	"gopkg.in/gomail.v2"
)

// EmailService mails order summaries to the shop inbox over SMTP
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
	send   func(m ...*gomail.Message) error
}

// NewEmailService creates a new email service from SMTP_* settings
func NewEmailService(env *config.EnvironmentVariable) *EmailService {
	dialer := gomail.NewDialer(env.SMTP_HOST, env.SMTP_PORT, env.SMTP_USERNAME, env.SMTP_PASSWORD)
	s := &EmailService{
		dialer: dialer,
		from:   env.SMTP_FROM,
		to:     env.ADMIN_EMAIL,
	}
	s.send = dialer.DialAndSend
	return s
}

// Name identifies the channel in notification logs
func (e *EmailService) Name() string { return "email" }

// Enabled checks if SMTP and the recipient are configured
func (e *EmailService) Enabled() bool {
	return e.dialer.Host != "" && e.from != "" && e.to != ""
}

// SendOrderSummary mails one checkout to ADMIN_EMAIL
func (e *EmailService) SendOrderSummary(ctx context.Context, summary model.OrderSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderOrderEmail(summary)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to)
	m.SetHeader("Subject", fmt.Sprintf("طلب جديد #%d - %s", summary.ReferenceOrderID, summary.UniversityName))
	m.SetBody("text/html", body)

	if err := e.send(m); err != nil {
		return fmt.Errorf("failed to send order email: %w", err)
	}
	return nil
}

var orderEmailTemplate = template.Must(template.New("order").Funcs(template.FuncMap{
	"amman": func(t time.Time) string {
		return t.In(time.FixedZone("Asia/Amman", 3*60*60)).Format("02/01/2006 15:04")
	},
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head><meta charset="UTF-8"><title>طلب جديد</title></head>
<body style="font-family: Tahoma, Arial, sans-serif;">
<h2>طلب جديد #{{.ReferenceOrderID}}</h2>
<p>الاسم: {{.FullName}}<br>الهاتف: {{.PhoneNumber}}<br>الجامعة: {{.UniversityName}}</p>
<table border="1" cellpadding="6" style="border-collapse: collapse;">
<tr><th>المادة</th><th>الكمية</th><th>السعر</th></tr>
{{range .Courses}}<tr><td>{{.CourseName}}</td><td>{{.Quantity}}</td><td>{{money .UnitPrice}}</td></tr>
{{end}}</table>
<p>الكمية الكلية: {{.TotalQuantity}}<br>المجموع: {{money .Subtotal}}<br>التوصيل: {{money .DeliveryFee}}<br><b>الإجمالي: {{money .Total}} دينار</b></p>
{{if .Notes}}<p>ملاحظات: {{.Notes}}</p>{{end}}
<p>{{.GroupTag}} · {{amman .PlacedAt}}</p>
</body>
</html>`))

func renderOrderEmail(summary model.OrderSummary) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTemplate.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("failed to render order email: %w", err)
	}
	return buf.String(), nil
}
