package messaging

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// TemplateData feeds the review request templates
type TemplateData struct {
	CustomerName string
	OrderNumber  string
	ReviewLink   string
	ProductNames []string
	StoreURL     string
}

var emailTemplate = template.Must(template.New("review_email").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>How was your recent purchase?</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc; line-height: 1.6; color: #334155; }
        .container { max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 40px 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 28px; font-weight: 600; }
        .content { padding: 40px 30px; }
        .order-info { background-color: #f1f5f9; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .button { display: inline-block; background: linear-gradient(135deg, #10b981 0%, #059669 100%); color: white; padding: 16px 32px; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px; margin: 30px 0; }
        .stars { color: #fbbf24; font-size: 32px; margin: 20px 0; text-align: center; }
        .footer { background-color: #f8fafc; padding: 30px; text-align: center; color: #64748b; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>How was your recent purchase?</h1>
        </div>
        <div class="content">
            <p>Hi {{.CustomerName}},</p>
            <p>Thank you for your order! We'd love to hear what you think.</p>
            {{if .OrderNumber}}<div class="order-info">Order #{{.OrderNumber}}</div>{{end}}
            {{if .ProductNames}}<ul>{{range .ProductNames}}<li>{{.}}</li>{{end}}</ul>{{end}}
            <div class="stars">&#9733;&#9733;&#9733;&#9733;&#9733;</div>
            <p style="text-align:center;"><a class="button" href="{{.ReviewLink}}">Write a Review</a></p>
            <p>Your feedback helps us improve and helps other customers make informed decisions.</p>
        </div>
        <div class="footer">
            <p>Thank you for choosing us!</p>
            {{if .StoreURL}}<p><a href="{{.StoreURL}}">Visit our store</a></p>{{end}}
        </div>
    </div>
</body>
</html>`))

// RenderEmailHTML renders the review request email body
func RenderEmailHTML(data TemplateData) (string, error) {
	var b strings.Builder
	if err := emailTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("messaging: render email template: %w", err)
	}
	return b.String(), nil
}

// RenderWhatsAppText renders the plain-text WhatsApp review request
func RenderWhatsAppText(data TemplateData) string {
	name := data.CustomerName
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s!\n\n", name)
	if data.OrderNumber != "" {
		fmt.Fprintf(&b, "Thank you for your recent order #%s!\n\n", data.OrderNumber)
	} else {
		b.WriteString("Thank you for your recent order!\n\n")
	}
	b.WriteString("We'd love to hear about your experience. Your feedback helps us improve and helps other customers make informed decisions.\n\n")
	fmt.Fprintf(&b, "Please take 2 minutes to share your review:\n%s\n\n", data.ReviewLink)
	b.WriteString("Thank you for choosing us!")
	return b.String()
}

// ReviewLink builds the storefront review form URL for a request. The
// first product of the order anchors the form; order and email are
// carried as query parameters so the submission can be attributed.
func ReviewLink(shop, productID, orderID, customerEmail string) string {
	if productID == "" {
		productID = "0"
	}
	q := url.Values{}
	q.Set("product", productID)
	q.Set("order", orderID)
	q.Set("email", customerEmail)
	return fmt.Sprintf("https://%s/pages/write-review?%s", shop, q.Encode())
}
