package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/JinxSeven/Risk-360/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

type record struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Tags     []string  `json:"tags"`
	Optional *string   `json:"optional,omitempty"`
	At       time.Time `json:"at"`
}

var _ = Describe("Collections", func() {
	var (
		ctx context.Context
		mem *store.Memory
	)

	BeforeEach(func() {
		ctx = context.Background()
		mem = store.NewMemory()
	})

	It("reads a missing key as an empty, non-nil slice", func() {
		items, err := store.Read[record](ctx, mem, store.KeyPolicies)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).NotTo(BeNil())
		Expect(items).To(BeEmpty())
	})

	It("returns exactly what was written", func() {
		opt := "x"
		written := []record{
			{ID: "1", Title: "first", Tags: []string{"a", "b"}, At: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
			{ID: "2", Title: "second", Tags: []string{}, Optional: &opt, At: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
		}
		Expect(store.Write(ctx, mem, store.KeyPolicies, written)).To(Succeed())

		read, err := store.Read[record](ctx, mem, store.KeyPolicies)
		Expect(err).NotTo(HaveOccurred())
		Expect(read).To(Equal(written))
	})

	It("stores a nil slice as an empty array", func() {
		Expect(store.Write[record](ctx, mem, store.KeyUsers, nil)).To(Succeed())
		raw, ok, err := mem.Get(ctx, store.KeyUsers)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(raw).To(Equal("[]"))
	})

	It("lets the last write win", func() {
		Expect(store.Write(ctx, mem, store.KeyUsers, []record{{ID: "1"}})).To(Succeed())
		Expect(store.Write(ctx, mem, store.KeyUsers, []record{{ID: "2"}})).To(Succeed())
		read, err := store.Read[record](ctx, mem, store.KeyUsers)
		Expect(err).NotTo(HaveOccurred())
		Expect(read).To(HaveLen(1))
		Expect(read[0].ID).To(Equal("2"))
	})

	It("reports corrupt documents as errors", func() {
		Expect(mem.Set(ctx, store.KeyPolicies, "{not json")).To(Succeed())
		_, err := store.Read[record](ctx, mem, store.KeyPolicies)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("decode policies"))
	})

	Describe("objects", func() {
		It("returns nil for a missing key", func() {
			obj, err := store.ReadObject[record](ctx, mem, store.KeyCompany)
			Expect(err).NotTo(HaveOccurred())
			Expect(obj).To(BeNil())
		})

		It("round-trips a single document", func() {
			in := record{ID: "c1", Title: "Acme", Tags: []string{}}
			Expect(store.WriteObject(ctx, mem, store.KeyCompany, in)).To(Succeed())
			out, err := store.ReadObject[record](ctx, mem, store.KeyCompany)
			Expect(err).NotTo(HaveOccurred())
			Expect(*out).To(Equal(in))
		})
	})

	Describe("strings", func() {
		It("treats an empty slot as missing", func() {
			Expect(store.WriteString(ctx, mem, store.KeyUserRole, "")).To(Succeed())
			_, ok, err := store.ReadString(ctx, mem, store.KeyUserRole)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("stores the raw value without JSON quoting", func() {
			Expect(store.WriteString(ctx, mem, store.KeyUserRole, "employee")).To(Succeed())
			raw, _, _ := mem.Get(ctx, store.KeyUserRole)
			Expect(raw).To(Equal("employee"))
		})
	})

	It("counts writes and deletes", func() {
		Expect(mem.Writes()).To(Equal(0))
		Expect(mem.Set(ctx, store.KeyUserRole, "admin")).To(Succeed())
		Expect(mem.Delete(ctx, store.KeyUserRole)).To(Succeed())
		Expect(mem.Writes()).To(Equal(2))
		_, ok, _ := mem.Get(ctx, store.KeyUserRole)
		Expect(ok).To(BeFalse())
	})
})
