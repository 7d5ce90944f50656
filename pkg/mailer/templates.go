package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

var welcomeText = template.Must(template.New("welcome").Parse(
	`Hi {{if .Name}}{{.Name}}{{else}}there{{end}},

Welcome aboard! Your account ({{.Email}}) is ready to use.

If you did not create this account, reply to this email and we will
remove it.
`))

// Render produces subject and text body for a template job.
func Render(job *EmailJob) (subject, text string, err error) {
	switch job.Template {
	case TemplateWelcome:
		var buf bytes.Buffer
		if err := welcomeText.Execute(&buf, job.Data); err != nil {
			return "", "", err
		}
		return "Welcome to LeadPilot", buf.String(), nil
	default:
		return "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
