package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent map[string]string
}

func (s *fakeSMS) Send(_ context.Context, phone, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[phone] = body
	return nil
}

func newTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestTemplates(t *testing.T) *Templates {
	t.Helper()
	tmpl, err := NewTemplates(fstest.MapFS{
		"welcome.html": {Data: []byte(`<p>Hi {{.Name}}, your code is {{.OTP}}</p>`)},
	})
	require.NoError(t, err)
	return tmpl
}

func runDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()
	d.Close()
	require.NoError(t, <-done)
}

func TestDispatcher_DeliversEmailAndSMS(t *testing.T) {
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	d := NewDispatcher(mailer, sms, newTestTemplates(t), newTestRedis(t), Options{Workers: 2, QueueSize: 8}, zap.NewNop())

	d.Enqueue(Job{
		Channel:  ChannelEmail,
		To:       "a@example.com",
		Subject:  "Welcome",
		Template: "welcome.html",
		Data:     map[string]any{"Name": "Asha", "OTP": "123456"},
	})
	d.Enqueue(Job{Channel: ChannelSMS, To: "+911234567890", Body: "Your OTP is 654321"})

	runDispatcher(t, d)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "123456")
	assert.Equal(t, "Your OTP is 654321", sms.sent["+911234567890"])
}

func TestDispatcher_FailedDeliveryGoesToDeadLetter(t *testing.T) {
	rdb := newTestRedis(t)
	mailer := &fakeMailer{err: errors.New("smtp down")}
	d := NewDispatcher(mailer, &fakeSMS{}, newTestTemplates(t), rdb, Options{Workers: 1, QueueSize: 4}, zap.NewNop())

	d.Enqueue(Job{Channel: ChannelEmail, To: "b@example.com", Subject: "x", Body: "<p>x</p>"})
	runDispatcher(t, d)

	letters, err := d.DeadLetters(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "b@example.com", letters[0].Job.To)
	assert.Equal(t, "smtp down", letters[0].Error)
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	rdb := newTestRedis(t)
	d := NewDispatcher(&fakeMailer{}, &fakeSMS{}, nil, rdb, Options{Workers: 1, QueueSize: 1}, zap.NewNop())

	// no workers running yet, so the second job cannot fit
	d.Enqueue(Job{Channel: ChannelSMS, To: "1", Body: "first"})
	d.Enqueue(Job{Channel: ChannelSMS, To: "2", Body: "second"})

	letters, err := d.DeadLetters(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "2", letters[0].Job.To)
	assert.Equal(t, ErrQueueFull.Error(), letters[0].Error)

	runDispatcher(t, d)
}

func TestDispatcher_EnqueueAfterClose(t *testing.T) {
	rdb := newTestRedis(t)
	d := NewDispatcher(&fakeMailer{}, &fakeSMS{}, nil, rdb, Options{}, zap.NewNop())
	runDispatcher(t, d)

	assert.NotPanics(t, func() {
		d.Enqueue(Job{Channel: ChannelSMS, To: "late", Body: "x"})
	})

	letters, err := d.DeadLetters(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, ErrClosed.Error(), letters[0].Error)
}

func TestDispatcher_UnknownTemplate(t *testing.T) {
	rdb := newTestRedis(t)
	d := NewDispatcher(&fakeMailer{}, &fakeSMS{}, newTestTemplates(t), rdb, Options{}, zap.NewNop())

	d.Enqueue(Job{Channel: ChannelEmail, To: "c@example.com", Template: "missing.html"})
	runDispatcher(t, d)

	letters, err := d.DeadLetters(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Contains(t, letters[0].Error, "missing.html")
}
