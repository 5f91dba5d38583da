package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DeadLetterKey = "notify:deadletter"
	deadLetterCap = 1000
)

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("dispatcher closed")
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Job is one outbound message. Email jobs render Template with Data when
// Template is set, otherwise Body is sent as is.
type Job struct {
	Channel  Channel        `json:"channel"`
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Body     string         `json:"body,omitempty"`
}

// Notifier accepts jobs without blocking and without reporting delivery errors.
type Notifier interface {
	Enqueue(job Job)
}

type DeadLetter struct {
	Job      Job       `json:"job"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

type DeadLetterReader interface {
	DeadLetters(ctx context.Context, limit int64) ([]DeadLetter, error)
}

type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

type Dispatcher struct {
	mailer    Mailer
	sms       SMSSender
	templates *Templates
	rdb       redis.UniversalClient
	queue     chan Job
	workers   int
	timeout   time.Duration
	log       *zap.Logger

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(mailer Mailer, sms SMSSender, templates *Templates, rdb redis.UniversalClient, opts Options, log *zap.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Dispatcher{
		mailer:    mailer,
		sms:       sms,
		templates: templates,
		rdb:       rdb,
		queue:     make(chan Job, opts.QueueSize),
		workers:   opts.Workers,
		timeout:   opts.Timeout,
		log:       log.With(zap.String("component", "notify")),
	}
}

// Enqueue hands the job to the workers. A full or closed queue sends the job
// straight to the dead-letter list.
func (d *Dispatcher) Enqueue(job Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.deadLetter(context.Background(), job, ErrClosed)
		return
	}

	select {
	case d.queue <- job:
	default:
		d.deadLetter(context.Background(), job, ErrQueueFull)
	}
}

// Run blocks until Close has been called and the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for job := range d.queue {
				d.deliver(gctx, job)
			}
			return nil
		})
	}

	return g.Wait()
}

func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	close(d.queue)
}

func (d *Dispatcher) deliver(ctx context.Context, job Job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.send(ctx, job); err != nil {
		d.log.Warn("Notification delivery failed",
			zap.Error(err),
			zap.String("channel", string(job.Channel)),
			zap.String("to", job.To),
		)
		d.deadLetter(ctx, job, err)
		return
	}

	d.log.Debug("Notification delivered",
		zap.String("channel", string(job.Channel)),
		zap.String("to", job.To),
	)
}

func (d *Dispatcher) send(ctx context.Context, job Job) error {
	switch job.Channel {
	case ChannelEmail:
		body := job.Body
		if job.Template != "" {
			if d.templates == nil {
				return fmt.Errorf("no templates loaded for %s", job.Template)
			}
			rendered, err := d.templates.Render(job.Template, job.Data)
			if err != nil {
				return err
			}
			body = rendered
		}
		return d.mailer.Send(ctx, job.To, job.Subject, body)

	case ChannelSMS:
		return d.sms.Send(ctx, job.To, job.Body)

	default:
		return fmt.Errorf("unsupported channel: %s", job.Channel)
	}
}

func (d *Dispatcher) deadLetter(ctx context.Context, job Job, cause error) {
	if d.rdb == nil {
		d.log.Error("Notification dropped", zap.Error(cause), zap.String("to", job.To))
		return
	}

	payload, err := json.Marshal(DeadLetter{
		Job:      job,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
	})
	if err != nil {
		d.log.Error("Failed to encode dead letter", zap.Error(err))
		return
	}

	pipe := d.rdb.TxPipeline()
	pipe.LPush(ctx, DeadLetterKey, payload)
	pipe.LTrim(ctx, DeadLetterKey, 0, deadLetterCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		d.log.Error("Failed to store dead letter", zap.Error(err), zap.String("to", job.To))
	}
}

// DeadLetters returns up to limit of the most recent failed jobs.
func (d *Dispatcher) DeadLetters(ctx context.Context, limit int64) ([]DeadLetter, error) {
	if d.rdb == nil {
		return nil, nil
	}

	raw, err := d.rdb.LRange(ctx, DeadLetterKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read dead letters: %w", err)
	}

	letters := make([]DeadLetter, 0, len(raw))
	for _, item := range raw {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(item), &dl); err != nil {
			continue
		}
		letters = append(letters, dl)
	}
	return letters, nil
}
