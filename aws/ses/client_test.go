package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sesv2"
	"github.com/aws/aws-sdk-go/service/sesv2/sesv2iface"
	"github.com/relloyd/dpu/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSes struct {
	sesv2iface.SESV2API
	got *sesv2.SendEmailInput
	err error
}

func (f *fakeSes) SendEmailWithContext(_ aws.Context, in *sesv2.SendEmailInput, _ ...request.Option) (*sesv2.SendEmailOutput, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestClient_SendRawEmail(t *testing.T) {
	api := &fakeSes{}
	c := NewClientWithAPI(api)
	id, err := c.SendRawEmail(context.Background(), RawEmail{
		From:        "etl@example.com",
		IdentityArn: "arn:aws:ses:eu-west-1:1:identity/example.com",
		To:          []string{"a@example.com", "b@example.com"},
		Data:        []byte("raw"),
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", id)
	assert.Equal(t, "etl@example.com", aws.StringValue(api.got.FromEmailAddress))
	assert.Equal(t, "arn:aws:ses:eu-west-1:1:identity/example.com", aws.StringValue(api.got.FromEmailAddressIdentityArn))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, aws.StringValueSlice(api.got.Destination.ToAddresses))
	assert.Equal(t, []byte("raw"), api.got.Content.Raw.Data)

	api.err = errors.New("MessageRejected")
	_, err = c.SendRawEmail(context.Background(), RawEmail{From: "x", To: []string{"y"}, Data: []byte("z")})
	var ese *errs.ExternalServiceError
	assert.True(t, errors.As(err, &ese))
}
