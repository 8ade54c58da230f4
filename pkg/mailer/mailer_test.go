package mailer

import (
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func capturingSMTP() (*SMTP, *[]sentMail) {
	var sent []sentMail
	m := New(Config{Addr: "mail.example.org:587", From: "registry@example.org"})
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m, &sent
}

func TestPublicationNotice(t *testing.T) {
	m, sent := capturingSMTP()

	court := models.Court{Name: "NAIROBI", Emails: "hc.nairobi@example.org, registry@example.org"}
	g := &models.Gazette{
		VolumeNo:      "CXXVI No. 12",
		DatePublished: time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
	}
	cases := []models.GazetteCase{
		{CauseNo: "123/2024", NameOfDeceased: "jane wanjiru"},
		{CauseNo: "456/2024", NameOfDeceased: "peter otieno"},
	}

	require.NoError(t, m.PublicationNotice(court, g, cases))
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "mail.example.org:587", mail.addr)
	assert.Equal(t, []string{"hc.nairobi@example.org", "registry@example.org"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Gazette publication notice - Vol. CXXVI No. 12")
	assert.Contains(t, mail.msg, "Cause No. 123/2024, estate of jane wanjiru")
	assert.Contains(t, mail.msg, "12 March 2024")
	assert.Contains(t, mail.msg, "causes at NAIROBI")
}

func TestPendingReminder(t *testing.T) {
	m, sent := capturingSMTP()

	court := models.Court{Name: "KISUMU", Emails: "cm.kisumu@example.org"}
	records := []models.Record{
		{CauseNo: "E9 OF 2024", NameOfDeceased: "grace wambui"},
	}

	require.NoError(t, m.PendingReminder(court, records))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "Subject: Pending gazette publications")
	assert.Contains(t, (*sent)[0].msg, "cause at KISUMU")
	assert.Contains(t, (*sent)[0].msg, "Cause No. E9 OF 2024, estate of grace wambui")
}

// A court without contact emails is skipped silently.
func TestNoRecipients(t *testing.T) {
	m, sent := capturingSMTP()
	require.NoError(t, m.PendingReminder(models.Court{Name: "GARISSA"}, nil))
	assert.Empty(t, *sent)
}

func TestDiscard(t *testing.T) {
	var d Discard
	assert.NoError(t, d.PublicationNotice(models.Court{}, nil, nil))
	assert.NoError(t, d.PendingReminder(models.Court{}, nil))
}
