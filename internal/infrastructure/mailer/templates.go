package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

type otpData struct {
	Code    string
	Minutes int
}

type resetData struct {
	Name    string
	Link    string
	Minutes int
}

const otpText = `Your Stock Tracker verification code is {{.Code}}.
It expires in {{.Minutes}} minutes. If you did not request it, ignore this email.
`

const otpHTML = `<p>Your Stock Tracker verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Code}}</p>
<p>It expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
`

const resetText = `Hi {{.Name}},

Use the link below to choose a new password. It expires in {{.Minutes}} minutes.

{{.Link}}

If you did not ask for a reset you can ignore this email.
`

const resetHTML = `<p>Hi {{.Name}},</p>
<p>Use the button below to choose a new password. It expires in {{.Minutes}} minutes.</p>
<p><a href="{{.Link}}" style="padding:10px 16px;background:#111;color:#fff;text-decoration:none;border-radius:4px">Reset password</a></p>
<p>If you did not ask for a reset you can ignore this email.</p>
`

var (
	otpTextTmpl   = texttemplate.Must(texttemplate.New("otp.txt").Parse(otpText))
	otpHTMLTmpl   = htmltemplate.Must(htmltemplate.New("otp.html").Parse(otpHTML))
	resetTextTmpl = texttemplate.Must(texttemplate.New("reset.txt").Parse(resetText))
	resetHTMLTmpl = htmltemplate.Must(htmltemplate.New("reset.html").Parse(resetHTML))
)

// render executes the plain and html variants of one email.
func render(text *texttemplate.Template, html *htmltemplate.Template, data any) (string, string, error) {
	var plain, rich bytes.Buffer
	if err := text.Execute(&plain, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", text.Name(), err)
	}
	if err := html.Execute(&rich, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", html.Name(), err)
	}
	return plain.String(), rich.String(), nil
}
