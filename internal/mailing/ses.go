package mailing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/outreach/internal/config"
)

// SESTransport delivers through AWS SES v2. It sends from the single
// configured identity instead of per-operator credentials, so it suits
// deployments where Gmail app passwords are not an option.
type SESTransport struct {
	client *sesv2.Client
	from   string
}

// NewSESTransport creates an SES v2 transport with static credentials.
func NewSESTransport(ctx context.Context, cfg appconfig.SESConfig) (*SESTransport, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESTransport{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.FromEmail,
	}, nil
}

// Send delivers one message through the SES SendEmail API.
func (t *SESTransport) Send(ctx context.Context, msg Message) error {
	from := t.from
	if from == "" {
		from = msg.FromAddress
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body)},
				},
			},
		},
	}

	if _, err := t.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
