package email

import (
	emailtypes "github.com/capstonehub/backend/pkg/email"
)

// Template variables understood by the built-in templates.
const (
	VarRecipientName = "RecipientName"
	VarProjectTitle  = "ProjectTitle"
	VarReason        = "Reason"
	VarStudentName   = "StudentName"
	VarStudentEmail  = "StudentEmail"
	VarMessage       = "Message"
	VarStatus        = "Status"
	VarSiteURL       = "SiteURL"
)

var templates = map[emailtypes.TemplateType]emailtypes.Template{
	emailtypes.TemplateProjectApproved: {
		TemplateType: emailtypes.TemplateProjectApproved,
		Subject:      "Your project \"{{.ProjectTitle}}\" was approved",
		TextContent: `Hello {{.RecipientName}},

Your capstone project "{{.ProjectTitle}}" has been approved and is now visible to students.

{{.SiteURL}}
`,
		HTMLContent: `<p>Hello {{.RecipientName}},</p>
<p>Your capstone project <strong>{{.ProjectTitle}}</strong> has been approved and is now visible to students.</p>
<p><a href="{{.SiteURL}}">{{.SiteURL}}</a></p>`,
	},
	emailtypes.TemplateProjectRejected: {
		TemplateType: emailtypes.TemplateProjectRejected,
		Subject:      "Your project \"{{.ProjectTitle}}\" needs changes",
		TextContent: `Hello {{.RecipientName}},

Your capstone project "{{.ProjectTitle}}" was not approved.

Reason: {{.Reason}}

You can edit the project and it will be resubmitted for review.
{{.SiteURL}}
`,
		HTMLContent: `<p>Hello {{.RecipientName}},</p>
<p>Your capstone project <strong>{{.ProjectTitle}}</strong> was not approved.</p>
<p>Reason: {{.Reason}}</p>
<p>You can edit the project and it will be resubmitted for review.</p>
<p><a href="{{.SiteURL}}">{{.SiteURL}}</a></p>`,
	},
	emailtypes.TemplateInterestReceived: {
		TemplateType: emailtypes.TemplateInterestReceived,
		Subject:      "New student interest in \"{{.ProjectTitle}}\"",
		TextContent: `Hello {{.RecipientName}},

{{.StudentName}} ({{.StudentEmail}}) is interested in your project "{{.ProjectTitle}}".
{{if .Message}}
Message: {{.Message}}
{{end}}
{{.SiteURL}}
`,
		HTMLContent: `<p>Hello {{.RecipientName}},</p>
<p>{{.StudentName}} ({{.StudentEmail}}) is interested in your project <strong>{{.ProjectTitle}}</strong>.</p>
{{if .Message}}<blockquote>{{.Message}}</blockquote>{{end}}
<p><a href="{{.SiteURL}}">{{.SiteURL}}</a></p>`,
	},
	emailtypes.TemplateAccountStatus: {
		TemplateType: emailtypes.TemplateAccountStatus,
		Subject:      "Your account is now {{.Status}}",
		TextContent: `Hello {{.RecipientName}},

An administrator changed your account status to {{.Status}}.
`,
		HTMLContent: `<p>Hello {{.RecipientName}},</p>
<p>An administrator changed your account status to <strong>{{.Status}}</strong>.</p>`,
	},
}

// lookupTemplate returns a copy of the built-in template for t.
func lookupTemplate(t emailtypes.TemplateType) (*emailtypes.Template, bool) {
	tmpl, ok := templates[t]
	if !ok {
		return nil, false
	}
	return &tmpl, true
}
