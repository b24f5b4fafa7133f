// Package sms publica SMS transaccionales (recordatorios y confirmaciones
// de booking) vía Amazon SNS.
package sms

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/dropDatabas3/wellbook/internal/observability/logger"
)

// Publisher abstrae el Publish de SNS para poder mockearlo en tests.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender envía SMS a números E.164.
type Sender struct {
	client   Publisher
	senderID string
}

// New crea un Sender con la config default de AWS (env/credenciales/rol).
func New(ctx context.Context, region, senderID string) (*Sender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(cfg), senderID: senderID}, nil
}

// NewWithClient inyecta un Publisher (tests).
func NewWithClient(client Publisher, senderID string) *Sender {
	return &Sender{client: client, senderID: senderID}
}

// Send publica un SMS transaccional. phone debe venir en E.164.
func (s *Sender) Send(ctx context.Context, phone, body string) error {
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		logger.L().Error("sms_publish_err", logger.Component("sms"), logger.Err(err))
		return err
	}
	return nil
}
