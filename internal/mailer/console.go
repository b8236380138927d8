package mailer

import "github.com/sirupsen/logrus"

// consoleService logs messages instead of sending them. Used in
// development and whenever no sendgrid key is configured.
type consoleService struct {
	logger *logrus.Logger
}

var _ Service = (*consoleService)(nil)

func NewConsoleService(logger *logrus.Logger) Service {
	return &consoleService{logger: logger}
}

func (svc *consoleService) Send(msg Message) {
	svc.logger.WithFields(logrus.Fields{
		"to":      msg.ToAddr,
		"subject": msg.Subject,
	}).Info("email (console):\n" + msg.Body)
}
