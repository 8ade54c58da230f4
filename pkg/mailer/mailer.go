// Package mailer sends the registry's outbound court notifications: a
// publication notice after a gazette scan and the periodic reminder about
// approved records still awaiting publication.
package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

var log = logrus.StandardLogger().WithField("package", "mailer")

// Notifier is what the server and the reminder job depend on.
type Notifier interface {
	PublicationNotice(court models.Court, gazette *models.Gazette, cases []models.GazetteCase) error
	PendingReminder(court models.Court, records []models.Record) error
}

type Config struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

type SMTP struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Notifier = (*SMTP)(nil)

func New(cfg Config) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

var noticeTmpl = template.Must(template.New("notice").Parse(
	`The following cause{{if gt (len .Cases) 1}}s{{end}} at {{.Court.Name}} appeared in gazette Vol. {{.Gazette.VolumeNo}} of {{.Gazette.DatePublished.Format "2 January 2006"}}:

{{range .Cases}}  - Cause No. {{.CauseNo}}, estate of {{.NameOfDeceased}}
{{end}}
The corresponding registry records have been marked Published.
`))

var reminderTmpl = template.Must(template.New("reminder").Parse(
	`The following approved cause{{if gt (len .Records) 1}}s{{end}} at {{.Court.Name}} have not yet appeared in a gazette:

{{range .Records}}  - Cause No. {{.CauseNo}}, estate of {{.NameOfDeceased}}
{{end}}
`))

func (m *SMTP) PublicationNotice(court models.Court, gazette *models.Gazette, cases []models.GazetteCase) error {
	body := bytes.NewBuffer(nil)
	err := noticeTmpl.Execute(body, map[string]any{
		"Court":   court,
		"Gazette": gazette,
		"Cases":   cases,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Gazette publication notice - Vol. %s", gazette.VolumeNo)
	return m.sendTo(court.ContactEmails(), subject, body.String())
}

func (m *SMTP) PendingReminder(court models.Court, records []models.Record) error {
	body := bytes.NewBuffer(nil)
	err := reminderTmpl.Execute(body, map[string]any{
		"Court":   court,
		"Records": records,
	})
	if err != nil {
		return err
	}
	return m.sendTo(court.ContactEmails(), "Pending gazette publications", body.String())
}

func (m *SMTP) sendTo(to []string, subject, body string) error {
	if len(to) == 0 {
		log.Debugf("no contact emails, skipping %q", subject)
		return nil
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, strings.Join(to, ", "), subject, body)

	var a smtp.Auth
	if m.cfg.Username != "" {
		host, _, _ := strings.Cut(m.cfg.Addr, ":")
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, host)
	}
	return m.send(m.cfg.Addr, a, m.cfg.From, to, []byte(msg))
}

// Discard drops all notifications; used when SMTP is not configured.
type Discard struct{}

var _ Notifier = Discard{}

func (Discard) PublicationNotice(court models.Court, _ *models.Gazette, _ []models.GazetteCase) error {
	log.Debugf("mailer disabled, dropping publication notice for %s", court.Name)
	return nil
}

func (Discard) PendingReminder(court models.Court, _ []models.Record) error {
	log.Debugf("mailer disabled, dropping pending reminder for %s", court.Name)
	return nil
}
