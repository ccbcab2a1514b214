package postgres_test

import (
	"context"
	"testing"
	"time"

	authPostgres "github.com/JinxSeven/Risk-360/internal/auth/postgres"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth Repository", func() {
	var (
		db   *gorm.DB
		repo *authPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&userDatamodel.AuthUser{}, &userDatamodel.AuthSession{}, &userDatamodel.Profile{})).To(Succeed())
		repo = authPostgres.NewRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("accounts", func() {
		BeforeEach(func() {
			Expect(repo.CreateAccount(ctx, &userDatamodel.AuthUser{
				ID: "u-1", Email: "jane@example.com", PasswordHash: "hash",
			})).To(Succeed())
		})

		It("finds an account by e-mail regardless of case", func() {
			got, err := repo.GetAccountByEmail(ctx, "  JANE@Example.com ")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.ID).To(Equal("u-1"))
		})

		It("returns nil for an unknown account", func() {
			got, err := repo.GetAccount(ctx, "missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("updates the password hash", func() {
			Expect(repo.UpdatePasswordHash(ctx, "u-1", "new-hash")).To(Succeed())
			got, err := repo.GetAccount(ctx, "u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.PasswordHash).To(Equal("new-hash"))
		})

		It("fails to update the hash of an unknown account", func() {
			Expect(repo.UpdatePasswordHash(ctx, "missing", "x")).To(MatchError(gorm.ErrRecordNotFound))
		})

		It("rejects a duplicate e-mail", func() {
			err := repo.CreateAccount(ctx, &userDatamodel.AuthUser{ID: "u-2", Email: "jane@example.com", PasswordHash: "h"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("profiles", func() {
		It("creates a profile and touches last login", func() {
			Expect(repo.CreateProfile(ctx, &userDatamodel.Profile{UserID: "u-1", Name: "Jane", Role: "manager"})).To(Succeed())

			at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
			Expect(repo.TouchLastLogin(ctx, "u-1", at)).To(Succeed())

			got, err := repo.GetProfile(ctx, "u-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Role).To(Equal("manager"))
			Expect(got.LastLogin).NotTo(BeNil())
			Expect(got.LastLogin.Equal(at)).To(BeTrue())
		})

		It("returns nil for a missing profile", func() {
			got, err := repo.GetProfile(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("sessions", func() {
		It("keeps the first revocation time", func() {
			expires := time.Now().Add(time.Hour).UTC()
			Expect(repo.CreateSession(ctx, &userDatamodel.AuthSession{ID: "s-1", UserID: "u-1", ExpiresAt: expires})).To(Succeed())

			first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			Expect(repo.RevokeSession(ctx, "s-1", first)).To(Succeed())
			Expect(repo.RevokeSession(ctx, "s-1", first.Add(time.Hour))).To(Succeed())

			got, err := repo.GetSession(ctx, "s-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.RevokedAt).NotTo(BeNil())
			Expect(got.RevokedAt.Equal(first)).To(BeTrue())
		})
	})
})
