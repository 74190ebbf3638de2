package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"geoQuestAPI/internal/types/challenge"
)

// TopicPushProvider sends a push to every device subscribed to topic.
type TopicPushProvider interface {
	SendTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// CompletionDispatcher fans completion pushes out to a small worker pool so the
// lifecycle write never waits on FCM.
type CompletionDispatcher struct {
	pushProvider TopicPushProvider
	workers      int
	jobQueue     chan *challenge.UserChallengeState
	stopChan     chan struct{}
	wg           sync.WaitGroup
	enqueueWait  time.Duration
	stopOnce     sync.Once
}

func NewCompletionDispatcher(provider TopicPushProvider) *CompletionDispatcher {
	d := &CompletionDispatcher{
		pushProvider: provider,
		workers:      5,
		jobQueue:     make(chan *challenge.UserChallengeState, 100),
		stopChan:     make(chan struct{}),
		enqueueWait:  5 * time.Second,
	}

	d.startWorkers()
	return d
}

func (d *CompletionDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *CompletionDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case st := <-d.jobQueue:
			d.process(st)
		case <-d.stopChan:
			return
		}
	}
}

func (d *CompletionDispatcher) process(st *challenge.UserChallengeState) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	title := "Someone finished your challenge"
	body := "A challenger just reached the target"
	if st.ChallengeTitle != "" {
		body = "A challenger just completed " + st.ChallengeTitle
	}

	data := map[string]string{
		"type":        "challenge_completed",
		"challengeId": st.ChallengeID,
		"userId":      st.UserID,
	}

	err := d.pushProvider.SendTopic(ctx, TopicForChallenge(st.ChallengeID), title, body, data)
	if err != nil {
		completionPushes.WithLabelValues("failed").Inc()
		zap.S().Warnf("Completion push failed for challenge %s: %v", st.ChallengeID, err)
		return
	}
	completionPushes.WithLabelValues("sent").Inc()
}

// NotifyCompleted queues a push. It gives up after a short wait when the queue is full.
func (d *CompletionDispatcher) NotifyCompleted(ctx context.Context, st *challenge.UserChallengeState) {
	job := *st

	select {
	case d.jobQueue <- &job:
	case <-time.After(d.enqueueWait):
		completionPushes.WithLabelValues("dropped").Inc()
		zap.S().Warnf("Failed to queue completion push for challenge %s: queue full", st.ChallengeID)
	case <-d.stopChan:
	}
}

// Stop the dispatcher gracefully
func (d *CompletionDispatcher) Stop() {
	d.stopOnce.Do(func() {
		zap.S().Info("Stopping completion dispatcher...")
		close(d.stopChan)
		d.wg.Wait()
		zap.S().Info("Completion dispatcher stopped")
	})
}

func TopicForChallenge(challengeID string) string {
	return "challenge_" + challengeID
}
