package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type SESConfig struct {
	AccessKey string
	SecretKey string
	Session   string
	Region    string
}

type sesMailer struct {
	client *sesv2.Client
	from   string
}

func newSES(ctx context.Context, cfg SESConfig, from string) (Service, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return Disabled(), errors.New("accessKey or secretKey is empty")
	}
	if from == "" {
		return Disabled(), errors.New("mail.from is required for SES")
	}
	region := cfg.Region
	if region == "" {
		region = "eu-central-1"
	}

	cred := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.Session)
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(cred),
		config.WithRegion(region),
	)
	if err != nil {
		return Disabled(), fmt.Errorf("falha ao carregar configuração AWS: %w", err)
	}

	return &sesMailer{client: sesv2.NewFromConfig(awsCfg), from: from}, nil
}

func (m *sesMailer) Send(ctx context.Context, msg Message) error {
	to := cleanRecipients(msg.To)
	if len(to) == 0 {
		return ErrNoRecipients
	}

	body := &types.Body{}
	if msg.Text != "" {
		body.Text = &types.Content{Data: aws.String(msg.Text)}
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML)}
	}

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(sanitizeHeader(msg.Subject))},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
