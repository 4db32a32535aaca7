package events_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/endemicwatch/endemic-monitoring/internal/core/events"
)

func TestEventBus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Event Bus Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.Default())
	})

	Describe("Publish", func() {
		It("delivers the event to every subscriber of its type", func() {
			var mu sync.Mutex
			received := make([]string, 0)

			handler := func(name string) events.Handler {
				return func(ctx context.Context, event events.Event) error {
					mu.Lock()
					defer mu.Unlock()
					received = append(received, name)
					return nil
				}
			}

			bus.Subscribe(events.EventTypeCaseCreated, handler("first"))
			bus.Subscribe(events.EventTypeCaseCreated, handler("second"))
			bus.Subscribe(events.EventTypeCaseDeleted, handler("other"))

			err := bus.Publish(context.Background(), events.NewCaseEvent(events.EventTypeCaseCreated, 1, 2, "CASE-AAAA1111", nil))
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(received)
			}, time.Second).Should(Equal(2))
			Expect(received).NotTo(ContainElement("other"))
		})

		It("does not propagate handler errors to the publisher", func() {
			bus.Subscribe(events.EventTypeUserLoggedIn, func(ctx context.Context, event events.Event) error {
				return errors.New("boom")
			})

			err := bus.Publish(context.Background(), events.NewAuthEvent(events.EventTypeUserLoggedIn, 1, "reporter@endemicwatch.org"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("is a no-op when nothing is subscribed", func() {
			err := bus.Publish(context.Background(), events.NewAuthEvent(events.EventTypeLoginFailed, 0, "nobody@example.com"))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("PublishSync", func() {
		It("stops at the first failing handler", func() {
			calls := 0
			bus.Subscribe(events.EventTypeCaseUpdated, func(ctx context.Context, event events.Event) error {
				calls++
				return errors.New("boom")
			})
			bus.Subscribe(events.EventTypeCaseUpdated, func(ctx context.Context, event events.Event) error {
				calls++
				return nil
			})

			err := bus.PublishSync(context.Background(), events.NewCaseEvent(events.EventTypeCaseUpdated, 1, 2, "CASE-AAAA1111", map[string]interface{}{"status": "confirmed"}))
			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(1))
		})
	})

	Describe("event constructors", func() {
		It("stamps auth events with the actor", func() {
			event := events.NewAuthEvent(events.EventTypeUserRegistered, 7, "reporter@endemicwatch.org")

			Expect(event.EventType()).To(Equal("auth.registered"))
			Expect(event.EventID()).NotTo(BeEmpty())

			payload := event.Payload().(map[string]interface{})
			Expect(payload["user_id"]).To(Equal(int64(7)))
			Expect(payload["email"]).To(Equal("reporter@endemicwatch.org"))
		})

		It("only attaches changes to case events when present", func() {
			bare := events.NewCaseEvent(events.EventTypeCaseCreated, 1, 2, "CASE-AAAA1111", nil)
			Expect(bare.Payload().(map[string]interface{})).NotTo(HaveKey("changes"))

			diffed := events.NewCaseEvent(events.EventTypeCaseUpdated, 1, 2, "CASE-AAAA1111", map[string]interface{}{"status": "recovered"})
			Expect(diffed.Payload().(map[string]interface{})).To(HaveKey("changes"))
		})
	})
})
