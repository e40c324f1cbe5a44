package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type KeyValueMock struct {
	mock.Mock
}

func (m *KeyValueMock) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *KeyValueMock) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *KeyValueMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *KeyValueMock) Close() error {
	return m.Called().Error(0)
}
