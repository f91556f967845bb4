package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"golang.org/x/time/rate"

	"quizbank-be/internal/pkg/logger"
)

// Options control the retry behavior of one enqueued job.
type Options struct {
	Attempts int           // total tries, including the first delivery
	Backoff  time.Duration // base delay, doubled per failed attempt
}

// Delivery is what a handler receives for one attempt of a job.
type Delivery struct {
	Name        string
	JobID       string
	Payload     []byte
	Attempt     int // 1-based
	MaxAttempts int
}

// FinalAttempt reports whether no retries remain after this delivery.
func (d Delivery) FinalAttempt() bool {
	return d.Attempt >= d.MaxAttempts
}

// Bind unmarshals the job payload into v.
func (d Delivery) Bind(v interface{}) error {
	if err := json.Unmarshal(d.Payload, v); err != nil {
		return fmt.Errorf("bind %s payload: %w", d.Name, err)
	}
	return nil
}

// Handler processes one delivery. A non-nil error triggers a retry until the
// job's attempt ceiling is reached.
type Handler func(ctx context.Context, d Delivery) error

// WorkerConfig tunes how a job type is consumed. A nil Limiter means
// unthrottled; Concurrency below 1 is treated as 1.
type WorkerConfig struct {
	Concurrency int
	Limiter     *rate.Limiter
}

const (
	metaJobName     = "job_name"
	metaJobID       = "job_id"
	metaAttempt     = "attempt"
	metaMaxAttempts = "max_attempts"
	metaBackoffMs   = "backoff_ms"
)

// Queue is an in-process task queue over watermill's gochannel pub/sub with
// idempotent-key dedupe, per-job retry with exponential backoff and
// per-worker rate limiting.
type Queue struct {
	pubSub *gochannel.GoChannel
	keys   KeyStore
	log    logger.ILogger
}

func New(keys KeyStore, log logger.ILogger) *Queue {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	return &Queue{pubSub: pubSub, keys: keys, log: log}
}

// Enqueue submits a job. An empty jobID skips deduplication; otherwise a
// jobID that was enqueued before is silently dropped.
func (q *Queue) Enqueue(ctx context.Context, name, jobID string, payload interface{}, opts Options) error {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	if jobID != "" {
		fresh, err := q.keys.SetNX(ctx, jobID)
		if err != nil {
			// a broken keystore must not wedge the pipeline; worst case is
			// a duplicate delivery, which handlers absorb via skip checks
			q.log.Warn("queue", "keystore unavailable, enqueueing without dedupe", map[string]interface{}{
				"job":   name,
				"jobId": jobID,
				"error": err.Error(),
			})
		} else if !fresh {
			q.log.Info("queue", "duplicate job skipped", map[string]interface{}{
				"job":   name,
				"jobId": jobID,
			})
			return nil
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", name, err)
	}

	return q.publish(name, jobID, data, 1, opts.Attempts, opts.Backoff)
}

func (q *Queue) publish(name, jobID string, data []byte, attempt, maxAttempts int, backoff time.Duration) error {
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metaJobName, name)
	msg.Metadata.Set(metaJobID, jobID)
	msg.Metadata.Set(metaAttempt, strconv.Itoa(attempt))
	msg.Metadata.Set(metaMaxAttempts, strconv.Itoa(maxAttempts))
	msg.Metadata.Set(metaBackoffMs, strconv.FormatInt(backoff.Milliseconds(), 10))

	if err := q.pubSub.Publish(name, msg); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

// Register starts consuming a job type. Must be called before any Enqueue
// for that type (gochannel drops messages without subscribers).
func (q *Queue) Register(name string, cfg WorkerConfig, h Handler) error {
	messages, err := q.pubSub.Subscribe(context.Background(), name)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}

	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		go q.consume(name, cfg.Limiter, messages, h)
	}
	return nil
}

func (q *Queue) consume(name string, limiter *rate.Limiter, messages <-chan *message.Message, h Handler) {
	for msg := range messages {
		if limiter != nil {
			if err := limiter.Wait(context.Background()); err != nil {
				msg.Nack()
				continue
			}
		}

		d := deliveryFrom(name, msg)

		err := h(context.Background(), d)
		if err == nil {
			msg.Ack()
			continue
		}

		if d.FinalAttempt() {
			q.log.Error("queue", "job failed permanently", map[string]interface{}{
				"job":      name,
				"jobId":    d.JobID,
				"attempts": d.Attempt,
				"error":    err.Error(),
			})
			msg.Ack()
			continue
		}

		backoffMs, _ := strconv.ParseInt(msg.Metadata.Get(metaBackoffMs), 10, 64)
		delay := time.Duration(backoffMs) * time.Millisecond * (1 << (d.Attempt - 1))

		q.log.Warn("queue", "job failed, retrying", map[string]interface{}{
			"job":     name,
			"jobId":   d.JobID,
			"attempt": d.Attempt,
			"delayMs": delay.Milliseconds(),
			"error":   err.Error(),
		})

		// re-publish after the backoff; the original delivery is acked so
		// the lane is free for other jobs in the meantime
		go func(d Delivery, delay time.Duration) {
			time.Sleep(delay)
			if err := q.publish(d.Name, d.JobID, d.Payload, d.Attempt+1, d.MaxAttempts, time.Duration(backoffMs)*time.Millisecond); err != nil {
				q.log.Error("queue", "retry publish failed", map[string]interface{}{
					"job":   d.Name,
					"jobId": d.JobID,
					"error": err.Error(),
				})
			}
		}(d, delay)
		msg.Ack()
	}
}

func deliveryFrom(name string, msg *message.Message) Delivery {
	attempt, _ := strconv.Atoi(msg.Metadata.Get(metaAttempt))
	if attempt < 1 {
		attempt = 1
	}
	maxAttempts, _ := strconv.Atoi(msg.Metadata.Get(metaMaxAttempts))
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return Delivery{
		Name:        name,
		JobID:       msg.Metadata.Get(metaJobID),
		Payload:     msg.Payload,
		Attempt:     attempt,
		MaxAttempts: maxAttempts,
	}
}

// Close shuts the underlying pub/sub down, ending every Register loop.
func (q *Queue) Close() error {
	return q.pubSub.Close()
}
