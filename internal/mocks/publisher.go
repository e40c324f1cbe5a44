package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// AuditPublisherMock stands in for the audit exchange publisher. It must not
// import rabbitmq or telemetry, which test against it.
type AuditPublisherMock struct {
	mock.Mock
}

func (m *AuditPublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *AuditPublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ExpectAudit registers one Publish call on routingKey whose event satisfies match.
func (m *AuditPublisherMock) ExpectAudit(routingKey string, match any, err error) *mock.Call {
	return m.On("Publish", mock.Anything, routingKey, mock.MatchedBy(match)).Return(err).Once()
}
