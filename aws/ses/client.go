// Package ses sends raw MIME email through Amazon SES v2.
package ses

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/sesv2"
	"github.com/aws/aws-sdk-go/service/sesv2/sesv2iface"
	"github.com/relloyd/dpu/errs"
)

type RawEmail struct {
	From        string   `errorTxt:"sender" mandatory:"yes"`
	IdentityArn string   // sending authorisation identity; optional.
	To          []string `errorTxt:"recipients" mandatory:"yes"`
	Data        []byte   `errorTxt:"message" mandatory:"yes"`
}

// RawSender is implemented by Client.
type RawSender interface {
	SendRawEmail(ctx context.Context, e RawEmail) (messageId string, err error)
}

type Client struct {
	api sesv2iface.SESV2API
}

func NewClient(sess client.ConfigProvider) *Client {
	return &Client{api: sesv2.New(sess)}
}

func NewClientWithAPI(api sesv2iface.SESV2API) *Client {
	return &Client{api: api}
}

func (c *Client) SendRawEmail(ctx context.Context, e RawEmail) (string, error) {
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.From),
		Destination:      &sesv2.Destination{ToAddresses: aws.StringSlice(e.To)},
		Content:          &sesv2.EmailContent{Raw: &sesv2.RawMessage{Data: e.Data}},
	}
	if e.IdentityArn != "" {
		in.FromEmailAddressIdentityArn = aws.String(e.IdentityArn)
	}
	out, err := c.api.SendEmailWithContext(ctx, in)
	if err != nil {
		return "", errs.External("ses", "send email", err)
	}
	return aws.StringValue(out.MessageId), nil
}
