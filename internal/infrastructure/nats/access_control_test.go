// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeinsight/issue-query-service/internal/domain/port"
	"github.com/stretchr/testify/assert"
)

// MockNATSClient is a mock implementation of NATSClientInterface
type MockNATSClient struct {
	checkAccessResponse CheckResponse
	checkAccessError    error
	connected           bool
	closeError          error
}

func NewMockNATSClient() *MockNATSClient {
	return &MockNATSClient{connected: true}
}

func (m *MockNATSClient) CheckAccess(ctx context.Context, request *CheckRequest) (CheckResponse, error) {
	if m.checkAccessError != nil {
		return nil, m.checkAccessError
	}
	return m.checkAccessResponse, nil
}

func (m *MockNATSClient) IsConnected() bool {
	return m.connected
}

func (m *MockNATSClient) Close() error {
	return m.closeError
}

func (m *MockNATSClient) SetCheckAccessResponse(response CheckResponse) {
	m.checkAccessResponse = response
}

func (m *MockNATSClient) SetCheckAccessError(err error) {
	m.checkAccessError = err
}

func (m *MockNATSClient) SetCloseError(err error) {
	m.closeError = err
}

func TestNATSAccessControlChecker_CheckAccess(t *testing.T) {
	tests := []struct {
		name           string
		subject        string
		data           []byte
		timeout        time.Duration
		setupMock      func(*MockNATSClient)
		expectedError  bool
		expectedErrMsg string
		expectedResult port.AccessCheckResult
	}{
		{
			name:    "successful check with mixed verdicts",
			subject: "dev.codeinsight.access_check.request",
			data:    []byte("project:alpha#browse@user:alice\nproject:alpha#scan@user:alice"),
			timeout: 5 * time.Second,
			setupMock: func(mock *MockNATSClient) {
				mock.SetCheckAccessResponse(CheckResponse{
					"project:alpha#browse@user:alice": "true",
					"project:alpha#scan@user:alice":   "false",
				})
			},
			expectedError: false,
			expectedResult: port.AccessCheckResult{
				"project:alpha#browse@user:alice": "true",
				"project:alpha#scan@user:alice":   "false",
			},
		},
		{
			name:    "successful check with empty response",
			subject: "dev.codeinsight.access_check.request",
			data:    []byte("project:alpha#browse@user:_anonymous"),
			timeout: 5 * time.Second,
			setupMock: func(mock *MockNATSClient) {
				mock.SetCheckAccessResponse(CheckResponse{})
			},
			expectedError:  false,
			expectedResult: port.AccessCheckResult{},
		},
		{
			name:    "NATS client error",
			subject: "dev.codeinsight.access_check.request",
			data:    []byte("project:alpha#browse@user:alice"),
			timeout: 5 * time.Second,
			setupMock: func(mock *MockNATSClient) {
				mock.SetCheckAccessError(errors.New("NATS connection timeout"))
			},
			expectedError:  true,
			expectedErrMsg: "NATS access control check failed",
		},
		{
			name:    "empty subject",
			subject: "",
			data:    []byte("project:alpha#browse@user:alice"),
			timeout: 5 * time.Second,
			setupMock: func(mock *MockNATSClient) {
				mock.SetCheckAccessError(errors.New("invalid NATS access check request: subject and message must be set"))
			},
			expectedError:  true,
			expectedErrMsg: "NATS access control check failed",
		},
		{
			name:    "nil data",
			subject: "dev.codeinsight.access_check.request",
			data:    nil,
			timeout: 5 * time.Second,
			setupMock: func(mock *MockNATSClient) {
				mock.SetCheckAccessError(errors.New("invalid NATS access check request: subject and message must be set"))
			},
			expectedError:  true,
			expectedErrMsg: "NATS access control check failed",
		},
		{
			name:    "zero timeout",
			subject: "dev.codeinsight.access_check.request",
			data:    []byte("project:alpha#browse@user:alice"),
			timeout: 0,
			setupMock: func(mock *MockNATSClient) {
				mock.SetCheckAccessResponse(CheckResponse{
					"project:alpha#browse@user:alice": "true",
				})
			},
			expectedError: false,
			expectedResult: port.AccessCheckResult{
				"project:alpha#browse@user:alice": "true",
			},
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockClient := NewMockNATSClient()
			tc.setupMock(mockClient)

			checker := &NATSAccessControlChecker{
				client: mockClient,
			}

			ctx := context.Background()
			result, err := checker.CheckAccess(ctx, tc.subject, tc.data, tc.timeout)

			if tc.expectedError {
				assertion.Error(err)
				assertion.Contains(err.Error(), tc.expectedErrMsg)
				return
			}

			assertion.NoError(err)
			assertion.Equal(tc.expectedResult, result)
		})
	}
}

func TestNATSAccessControlChecker_IsReady(t *testing.T) {
	assertion := assert.New(t)

	t.Run("connected client is ready", func(t *testing.T) {
		checker := &NATSAccessControlChecker{client: NewMockNATSClient()}
		assertion.NoError(checker.IsReady(context.Background()))
	})

	t.Run("disconnected client is not ready", func(t *testing.T) {
		mockClient := NewMockNATSClient()
		mockClient.connected = false
		checker := &NATSAccessControlChecker{client: mockClient}
		assertion.Error(checker.IsReady(context.Background()))
	})
}

func TestNATSAccessControlChecker_Close(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockNATSClient)
		expectedError  bool
		expectedErrMsg string
	}{
		{
			name: "successful close",
			setupMock: func(mock *MockNATSClient) {
				// No error on close
			},
			expectedError: false,
		},
		{
			name: "close with error",
			setupMock: func(mock *MockNATSClient) {
				mock.SetCloseError(errors.New("failed to close connection"))
			},
			expectedError:  true,
			expectedErrMsg: "failed to close connection",
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockClient := NewMockNATSClient()
			tc.setupMock(mockClient)

			checker := &NATSAccessControlChecker{
				client: mockClient,
			}

			err := checker.Close()

			if tc.expectedError {
				assertion.Error(err)
				assertion.Contains(err.Error(), tc.expectedErrMsg)
				return
			}

			assertion.NoError(err)
		})
	}
}

func TestNATSAccessControlChecker_convertFromNATSResponse(t *testing.T) {
	tests := []struct {
		name           string
		natsResponse   CheckResponse
		expectedResult port.AccessCheckResult
	}{
		{
			name: "convert response with multiple relations",
			natsResponse: CheckResponse{
				"project:alpha#browse@user:alice": "true",
				"project:alpha#admin@user:alice":  "false",
			},
			expectedResult: port.AccessCheckResult{
				"project:alpha#browse@user:alice": "true",
				"project:alpha#admin@user:alice":  "false",
			},
		},
		{
			name:           "convert empty response",
			natsResponse:   CheckResponse{},
			expectedResult: port.AccessCheckResult{},
		},
		{
			name:           "convert nil response",
			natsResponse:   nil,
			expectedResult: port.AccessCheckResult(nil),
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			checker := &NATSAccessControlChecker{
				client: NewMockNATSClient(),
			}

			result := checker.convertFromNATSResponse(tc.natsResponse)

			assertion.Equal(tc.expectedResult, result)
		})
	}
}
