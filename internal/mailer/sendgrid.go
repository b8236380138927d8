package mailer

import (
	"net/http"

	"ictportal/pkg/types"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridService struct {
	key    string
	from   *sgmail.Email
	logger *logrus.Logger
}

var _ Service = (*sendgridService)(nil)

func NewSendgridService(config *types.Config, logger *logrus.Logger) Service {
	return &sendgridService{
		key:    config.SendgridAPIKey,
		from:   sgmail.NewEmail(config.EmailFromName, config.EmailFromAddr),
		logger: logger,
	}
}

// Send delivers in a goroutine; failures are logged and swallowed.
func (svc *sendgridService) Send(msg Message) {
	go func() {
		m := sgmail.NewV3Mail()
		m.SetFrom(svc.from)

		p := sgmail.NewPersonalization()
		p.Subject = msg.Subject
		p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToAddr))
		m.AddPersonalizations(p)

		m.AddContent(sgmail.NewContent("text/plain", msg.Body))

		req := sendgrid.GetRequest(svc.key, sendgridEndpoint, sendgridHost)
		req.Method = http.MethodPost
		req.Body = sgmail.GetRequestBody(m)

		res, err := sendgrid.API(req)
		if err != nil {
			svc.logger.WithError(err).WithField("to", msg.ToAddr).Error("sending receipt email")
		} else if res.StatusCode >= http.StatusBadRequest {
			svc.logger.WithFields(logrus.Fields{
				"to":     msg.ToAddr,
				"status": res.StatusCode,
				"body":   res.Body,
			}).Error("sending receipt email")
		}
	}()
}
