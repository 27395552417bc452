package services

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/adampresley/adamgokit/email"
	"github.com/adampresley/driveportfolio/pkg/models"
)

var (
	ErrNoClientEmail = errors.New("album has no client email address")
)

var albumLinkTemplate = template.Must(template.New("email").Parse(`
<h1>Your photos are ready!</h1>
<p>Hello! The photos from '{{.albumName}}' are ready to view. Use the
link below to see the album and download your favorites.</p>
<a href="{{.link}}">View Album</a>
`))

type EmailSender interface {
	Send(mail email.Mail) error
}

type EmailSenderFunc func(mail email.Mail) error

func (f EmailSenderFunc) Send(mail email.Mail) error {
	return f(mail)
}

type LinkMailerConfig struct {
	ApiKey    string
	FromEmail string
	FromName  string
	Sender    EmailSender
}

type LinkMailer interface {
	SendAlbumLink(album models.ClientAlbum, link string) error
}

type EmailService struct {
	fromEmail string
	fromName  string
	sender    EmailSender
}

func NewEmailService(config LinkMailerConfig) EmailService {
	sender := config.Sender

	if sender == nil {
		resend := email.NewResendService(&email.Config{
			ApiKey: config.ApiKey,
		})

		sender = EmailSenderFunc(func(mail email.Mail) error {
			return resend.Send(mail)
		})
	}

	return EmailService{
		fromEmail: config.FromEmail,
		fromName:  config.FromName,
		sender:    sender,
	}
}

/*
SendAlbumLink emails the shareable link of an album to its client.
*/
func (s EmailService) SendAlbumLink(album models.ClientAlbum, link string) error {
	if strings.TrimSpace(album.ClientEmail) == "" {
		return ErrNoClientEmail
	}

	body, err := RenderAlbumLinkEmail(album, link)

	if err != nil {
		return err
	}

	err = s.sender.Send(email.Mail{
		Body:       body,
		BodyIsHtml: true,
		From: email.EmailAddress{
			Email: s.fromEmail,
			Name:  s.fromName,
		},
		Subject: fmt.Sprintf("Your photos from %s", album.Name),
		To: []email.EmailAddress{
			{Email: album.ClientEmail},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending album link for '%s': %w", album.Name, err)
	}

	return nil
}

func RenderAlbumLinkEmail(album models.ClientAlbum, link string) (string, error) {
	parsedTemplate := strings.Builder{}

	err := albumLinkTemplate.Execute(&parsedTemplate, map[string]any{
		"albumName": album.Name,
		"link":      link,
	})

	if err != nil {
		return "", fmt.Errorf("error rendering album link email: %w", err)
	}

	return parsedTemplate.String(), nil
}
