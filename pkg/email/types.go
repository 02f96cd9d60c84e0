package email

// ProviderType represents supported email providers
type ProviderType string

const (
	ProviderMailgun  ProviderType = "mailgun"
	ProviderSendGrid ProviderType = "sendgrid"
	// ProviderNone disables outbound email; notifications are logged and dropped.
	ProviderNone ProviderType = "none"
)

// TemplateType identifies a notification template
type TemplateType string

const (
	TemplateProjectApproved  TemplateType = "project_approved"
	TemplateProjectRejected  TemplateType = "project_rejected"
	TemplateInterestReceived TemplateType = "interest_received"
	TemplateAccountStatus    TemplateType = "account_status"
)

// Config represents email provider configuration
type Config struct {
	ProviderType ProviderType `json:"provider_type"`
	APIKey       string       `json:"-"`
	Domain       string       `json:"domain,omitempty"`
	FromEmail    string       `json:"from_email"`
	FromName     string       `json:"from_name"`
}

// Template represents an email template
type Template struct {
	TemplateType TemplateType `json:"template_type"`
	Subject      string       `json:"subject"`
	HTMLContent  string       `json:"html_content"`
	TextContent  string       `json:"text_content"`
}

// EmailData represents the data needed to send an email
type EmailData struct {
	To        []string          `json:"to"`
	Subject   string            `json:"subject"`
	Variables map[string]string `json:"variables,omitempty"`
	Template  *Template         `json:"-"`
}
