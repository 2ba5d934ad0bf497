package search_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"contactuse/internal/core/search"
)

var _ = Describe("Registry", func() {
	var (
		ctx context.Context
		reg *search.Registry
	)

	newJob := func(id string) search.Job {
		return search.Job{
			ID:        id,
			Request:   search.SearchRequest{Keywords: "Jane Doe", FieldsToFind: []string{"email"}},
			Status:    search.StatusPending,
			CreatedAt: time.Now(),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		reg = search.NewRegistry()
	})

	It("stores and returns a job by id", func() {
		Expect(reg.Put(ctx, newJob("a"))).To(Succeed())

		got, err := reg.Get("a")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal("a"))
		Expect(got.Status).To(Equal(search.StatusPending))
	})

	It("reports unknown ids as not found", func() {
		_, err := reg.Get("missing")
		Expect(errors.Is(err, search.ErrJobNotFound)).To(BeTrue())
	})

	It("refuses to overwrite an existing id", func() {
		Expect(reg.Put(ctx, newJob("a"))).To(Succeed())
		err := reg.Put(ctx, newJob("a"))
		Expect(errors.Is(err, search.ErrDuplicateJob)).To(BeTrue())
		Expect(reg.Len()).To(Equal(1))
	})

	It("lists jobs in insertion order", func() {
		for _, id := range []string{"c", "a", "b"} {
			Expect(reg.Put(ctx, newJob(id))).To(Succeed())
		}

		ids := []string{}
		for _, j := range reg.List() {
			ids = append(ids, j.ID)
		}
		Expect(ids).To(Equal([]string{"c", "a", "b"}))
	})

	It("returns an empty, non-nil list when nothing is stored", func() {
		Expect(reg.List()).NotTo(BeNil())
		Expect(reg.List()).To(BeEmpty())
	})

	It("hands out copies that cannot alter stored state", func() {
		Expect(reg.Put(ctx, newJob("a"))).To(Succeed())

		got, _ := reg.Get("a")
		got.Status = search.StatusFailed
		got.Request.FieldsToFind[0] = "tampered"

		again, _ := reg.Get("a")
		Expect(again.Status).To(Equal(search.StatusPending))
		Expect(again.Request.FieldsToFind).To(Equal([]string{"email"}))
	})

	It("returns identical results for repeated reads", func() {
		Expect(reg.Put(ctx, newJob("a"))).To(Succeed())
		Expect(reg.Put(ctx, newJob("b"))).To(Succeed())

		first, _ := reg.Get("a")
		second, _ := reg.Get("a")
		Expect(second).To(Equal(first))
		Expect(reg.List()).To(Equal(reg.List()))
	})

	It("accepts concurrent inserts", func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(reg.Put(ctx, newJob(fmt.Sprintf("job-%d", i)))).To(Succeed())
			}(i)
		}
		wg.Wait()
		Expect(reg.Len()).To(Equal(50))
	})

	It("publishes every committed write and survives publisher errors", func() {
		pub := &recordingPublisher{err: errors.New("redis down")}
		reg = search.NewRegistry(search.WithPublisher(pub))

		Expect(reg.Put(ctx, newJob("a"))).To(Succeed())

		Expect(pub.Statuses("a")).To(Equal([]search.Status{search.StatusPending}))
		_, err := reg.Get("a")
		Expect(err).NotTo(HaveOccurred())
	})

	It("moves a job forward through its lifecycle", func() {
		Expect(reg.Put(ctx, newJob("a"))).To(Succeed())

		_, err := reg.SetStatus(ctx, "a", search.StatusRunning)
		Expect(err).NotTo(HaveOccurred())
		done, err := reg.SetStatus(ctx, "a", search.StatusCompleted)
		Expect(err).NotTo(HaveOccurred())

		Expect(done.Status).To(Equal(search.StatusCompleted))
	})

	DescribeTable("rejects transitions that go backwards or skip a state",
		func(path []search.Status, to search.Status) {
			Expect(reg.Put(ctx, newJob("a"))).To(Succeed())
			for _, st := range path {
				_, err := reg.SetStatus(ctx, "a", st)
				Expect(err).NotTo(HaveOccurred())
			}
			before, err := reg.Get("a")
			Expect(err).NotTo(HaveOccurred())

			_, err = reg.SetStatus(ctx, "a", to)

			Expect(err).To(MatchError(search.ErrInvalidTransition))
			after, err := reg.Get("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		},
		Entry("pending to completed", []search.Status{}, search.StatusCompleted),
		Entry("completed to running", []search.Status{search.StatusRunning, search.StatusCompleted}, search.StatusRunning),
		Entry("failed to completed", []search.Status{search.StatusRunning, search.StatusFailed}, search.StatusCompleted),
		Entry("failed to pending", []search.Status{search.StatusRunning, search.StatusFailed}, search.StatusPending),
	)

	It("reports transitions on unknown ids as not found", func() {
		_, err := reg.SetStatus(ctx, "missing", search.StatusRunning)

		Expect(err).To(MatchError(search.ErrJobNotFound))
	})
})
