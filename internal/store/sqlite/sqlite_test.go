package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JinxSeven/Risk-360/internal/store"
	"github.com/JinxSeven/Risk-360/internal/store/sqlite"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSQLiteStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLite Store Suite")
}

type policy struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	AssignedTo []string `json:"assignedTo"`
}

var _ = Describe("SQLite local store", func() {
	var (
		ctx context.Context
		s   *sqlite.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		s, err = sqlite.New(db)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports a missing key", func() {
		_, ok, err := s.Get(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("overwrites on repeated Set", func() {
		Expect(s.Set(ctx, store.KeyUserRole, "admin")).To(Succeed())
		Expect(s.Set(ctx, store.KeyUserRole, "employee")).To(Succeed())
		v, ok, err := s.Get(ctx, store.KeyUserRole)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("employee"))
	})

	It("deletes a key", func() {
		Expect(s.Set(ctx, store.KeyUserRole, "admin")).To(Succeed())
		Expect(s.Delete(ctx, store.KeyUserRole)).To(Succeed())
		_, ok, err := s.Get(ctx, store.KeyUserRole)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("round-trips a collection through the typed helpers", func() {
		in := []policy{
			{ID: "1", Title: "Acceptable Use", AssignedTo: []string{"Ana", "Bo"}},
			{ID: "2", Title: "Retention", AssignedTo: []string{}},
		}
		Expect(store.Write(ctx, s, store.KeyPolicies, in)).To(Succeed())
		out, err := store.Read[policy](ctx, s, store.KeyPolicies)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(in))
	})

	It("answers a ping while open and fails once closed", func() {
		Expect(s.PingContext(ctx)).To(Succeed())
		Expect(s.Close()).To(Succeed())
		Expect(s.PingContext(ctx)).NotTo(Succeed())
	})

	It("persists to a file across reopen", func() {
		path := filepath.Join(GinkgoT().TempDir(), "demo.db")
		first, err := sqlite.Open(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Set(ctx, store.KeyCompany, `{"name":"Acme"}`)).To(Succeed())
		Expect(first.Close()).To(Succeed())

		second, err := sqlite.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()
		v, ok, err := second.Get(ctx, store.KeyCompany)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(`{"name":"Acme"}`))
	})
})
