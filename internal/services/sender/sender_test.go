package sender

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/level-4u/level-backend/internal/lib/smtp"
	"github.com/level-4u/level-backend/internal/models"
)

type writeCloserMock struct {
	buf      bytes.Buffer
	closeErr error
}

func (w *writeCloserMock) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *writeCloserMock) Close() error                { return w.closeErr }

type ClientMock struct{ mock.Mock }

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return m.Called().Error(0) }

type TransportMock struct {
	mock.Mock
	client *ClientMock
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return m.client, args.Error(1)
}
func (m *TransportMock) SenderAddress() string { return m.Called().String(0) }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func inviteBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.ReviewInvite{
		OrderID:       "ORD-1",
		CustomerName:  "Anna",
		CustomerEmail: "anna@example.com",
		BusinessName:  "Acme Store",
		ReviewURL:     "https://level.example.com/review/tok-1",
	})
	assert.NoError(t, err)
	return body
}

func TestSenderService_SendReviewInvite(t *testing.T) {
	t.Run("success send", func(t *testing.T) {
		client := new(ClientMock)
		transport := new(TransportMock)
		transport.client = client
		svc := New(transport, newNoopLogger())

		wc := &writeCloserMock{}
		transport.On("SenderAddress").Return("noreply@level.example.com")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "noreply@level.example.com").Return(nil).Once()
		client.On("Rcpt", "anna@example.com").Return(nil).Once()
		client.On("Data").Return(wc, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		err := svc.SendReviewInvite(inviteBody(t))
		assert.NoError(t, err)
		assert.Contains(t, wc.buf.String(), "To: anna@example.com")
		assert.Contains(t, wc.buf.String(), "https://level.example.com/review/tok-1")
		assert.Contains(t, wc.buf.String(), "Acme Store")

		transport.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("malformed message body", func(t *testing.T) {
		transport := new(TransportMock)
		svc := New(transport, newNoopLogger())

		err := svc.SendReviewInvite([]byte("not-json"))
		assert.Error(t, err)
	})

	t.Run("connect error", func(t *testing.T) {
		transport := new(TransportMock)
		svc := New(transport, newNoopLogger())

		transport.On("SenderAddress").Return("noreply@level.example.com")
		transport.On("Connect").Return(nil, errors.New("dial failed")).Once()

		err := svc.SendReviewInvite(inviteBody(t))
		assert.Error(t, err)
		transport.AssertExpectations(t)
	})

	t.Run("rcpt error", func(t *testing.T) {
		client := new(ClientMock)
		transport := new(TransportMock)
		transport.client = client
		svc := New(transport, newNoopLogger())

		transport.On("SenderAddress").Return("noreply@level.example.com")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "noreply@level.example.com").Return(nil).Once()
		client.On("Rcpt", "anna@example.com").Return(errors.New("mailbox unavailable")).Once()
		client.On("Close").Return(nil).Once()

		err := svc.SendReviewInvite(inviteBody(t))
		assert.Error(t, err)
		client.AssertExpectations(t)
	})
}
