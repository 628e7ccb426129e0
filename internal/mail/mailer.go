// Package mail implements the transactional delivery path: instead of
// opening the resident's own mail client, the server can dispatch the
// composed email through AWS SES on their behalf. Delivery is an external
// sink (the metrics core only ever learns "a record was submitted") and
// this path carries no delivery guarantee: SES errors surface to the caller
// and nothing is retried.
package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/e20residents/campaign-backend/internal/config"
)

// Message is one outbound campaign email.
type Message struct {
	To       []string
	CC       []string
	ReplyTo  string // the resident's own address
	FromName string // display name; the From address is fixed per campaign
	From     string
	Subject  string
	Text     string
}

// Sender delivers a composed campaign email. Implementations must be safe
// for concurrent use.
type Sender interface {
	// Send dispatches msg and returns the provider's message ID.
	Send(ctx context.Context, msg Message) (string, error)
}

// SESSender sends email through AWS SES using SDK v2 with the Simple content
// type. Construct with NewSESSender.
type SESSender struct {
	client *sesv2.Client
}

// NewSESSender builds an SES sender from static credentials. Returns nil
// (no sender, path disabled) when credentials are absent.
func NewSESSender(ctx context.Context, cfg config.SESConfig) (*SESSender, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SESSender{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// Send dispatches one email through SES. The From header combines the
// resident's display name with the campaign's fixed sending address, and the
// resident's real address goes in Reply-To, mirroring what the mail-client
// path produces.
func (s *SESSender) Send(ctx context.Context, msg Message) (string, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", msg.FromName, msg.From)),
		Destination: &types.Destination{
			ToAddresses: msg.To,
			CcAddresses: msg.CC,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	id := ""
	if out.MessageId != nil {
		id = *out.MessageId
	}
	log.Info().Str("message_id", id).Msg("campaign email dispatched via ses")
	return id, nil
}
