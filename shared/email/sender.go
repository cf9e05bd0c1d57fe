package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"trendclipper/internal/models"
	"trendclipper/shared/config"
)

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// SendDigest mails an HTML summary of the ranked videos from one run.
func (s *Sender) SendDigest(ranked []models.RankedCandidate, clip *models.ClipDescriptor) error {
	if len(ranked) == 0 {
		return nil // Nothing to report
	}

	subject := fmt.Sprintf("Trend Clipper Digest - %d Trending Videos (%s)",
		len(ranked), time.Now().Format("Jan 2, 2006"))

	body, err := s.generateDigestBody(ranked, clip)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

const digestTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto;">
  <h2>Trending Videos</h2>
  <table width="100%" cellpadding="8" cellspacing="0" border="0">
    <tr style="background: #f2f2f2;">
      <th align="left">#</th>
      <th align="left">Video</th>
      <th align="left">Channel</th>
      <th align="right">Score</th>
    </tr>
    {{range $i, $v := .Videos}}
    <tr>
      <td>{{inc $i}}</td>
      <td><a href="{{$v.URL}}">{{$v.Title}}</a><br/><small>{{$v.Trend.Reason}}</small></td>
      <td>{{$v.ChannelTitle}}</td>
      <td align="right">{{printf "%.2f" $v.Trend.Score}}</td>
    </tr>
    {{end}}
  </table>
  {{if .Clip}}
  <h3>Selected Clip</h3>
  <p>
    <strong>{{.Clip.Caption}}</strong><br/>
    Window: {{printf "%.0f" .Clip.StartTime}}s - {{printf "%.0f" .Clip.EndTime}}s ({{printf "%.0f" .Clip.Duration}}s)<br/>
    Reason: {{.Clip.Reason}}<br/>
    <a href="{{.Clip.VideoURL}}">Source video</a>
  </p>
  {{end}}
</body>
</html>`

func (s *Sender) generateDigestBody(ranked []models.RankedCandidate, clip *models.ClipDescriptor) (string, error) {
	tmpl := template.New("digest").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	})

	tmpl, err := tmpl.Parse(digestTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		Videos []models.RankedCandidate
		Clip   *models.ClipDescriptor
	}{
		Videos: ranked,
		Clip:   clip,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
