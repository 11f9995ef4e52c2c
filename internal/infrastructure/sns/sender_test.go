package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	if out, _ := args.Get(0).(*sns.PublishOutput); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSend_Transactional(t *testing.T) {
	p := &mockPublisher{}
	p.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		_, hasSender := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return *in.PhoneNumber == "+15551234567" &&
			*in.Message == "code 123456" &&
			*in.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue == "Transactional" &&
			!hasSender
	})).Return(&sns.PublishOutput{}, nil)

	s := &Sender{client: p}
	require.NoError(t, s.Send(context.Background(), "+15551234567", "code 123456"))
	p.AssertExpectations(t)
}

func TestSend_SenderID(t *testing.T) {
	p := &mockPublisher{}
	p.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return *in.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue == "VERIFY"
	})).Return(&sns.PublishOutput{}, nil)

	s := &Sender{client: p, senderID: "VERIFY"}
	require.NoError(t, s.Send(context.Background(), "+15551234567", "hi"))
	p.AssertExpectations(t)
}

func TestSend_Error(t *testing.T) {
	p := &mockPublisher{}
	p.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	s := &Sender{client: p}
	err := s.Send(context.Background(), "+15551234567", "hi")
	assert.ErrorContains(t, err, "sns publish: throttled")
}
