package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/auth"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/store"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the selected data path with sample data",
	Long:  `Seed sample users, policies, compliance requirements and a report. Uses the hosted backend when reachable and the local demo store otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		ctx := context.Background()

		deps, err := initializeDependencies(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		if clearData {
			if deps.Probe.IsConnected(ctx) {
				log.Fatalf("--clear only applies to the local demo store")
			}
			for _, key := range []string{
				store.KeyCompany, store.KeyPolicies, store.KeyComplianceRequirements,
				store.KeyWhistleblowingReports, store.KeyUsers, store.KeyNotifications,
				store.KeyAuditTrail, store.KeyUserRole,
			} {
				if err := deps.Local.Delete(ctx, key); err != nil {
					log.Fatalf("failed to clear %s: %v", key, err)
				}
			}
			fmt.Println("Cleared local demo store")
		}

		if err := seedUsers(ctx, deps.Auth, deps.Data); err != nil {
			log.Fatalf("failed to seed users: %v", err)
		}
		if err := seedGRC(ctx, deps.Data); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
		fmt.Println("Sample data seeded successfully")
	},
}

func seedUsers(ctx context.Context, svc *auth.Service, data grc.DataService) error {
	users, err := data.ListUsers(ctx)
	if err != nil {
		return err
	}
	known := map[string]bool{}
	for _, u := range users {
		known[strings.ToLower(u.Email)] = true
	}

	accounts := []auth.SignUpRequest{
		{Email: "demo@example.com", Password: seedPassword, Name: "Demo Admin", Role: grc.RoleAdmin, Department: "IT"},
		{Email: "employee@example.com", Password: seedPassword, Name: "Sam Employee", Role: grc.RoleEmployee, Department: "Sales"},
	}
	for _, a := range accounts {
		if known[a.Email] {
			fmt.Println("user already exists:", a.Email)
			continue
		}
		_, err := svc.SignUp(ctx, a, true)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.Is(internal.ErrEmailTaken) {
				fmt.Println("user already exists:", a.Email)
				continue
			}
			return fmt.Errorf("sign up %s: %w", a.Email, err)
		}
		fmt.Println("Seeded user:", a.Email)
	}
	return nil
}

func seedGRC(ctx context.Context, svc grc.DataService) error {
	existing, err := svc.ListPolicies(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Println("policies already present; skipping sample data")
		return nil
	}

	name := "Acme Holdings"
	industry := "Financial Services"
	location := "London"
	size := "250-500"
	if _, err := svc.UpdateCompany(ctx, grc.CompanyUpdate{Name: &name, Industry: &industry, Location: &location, Size: &size}); err != nil {
		return err
	}

	policies := []grc.NewPolicy{
		{Title: "Information Security Policy", Description: "Baseline controls for systems and data", Category: "Security", Status: grc.PolicyActive, AssignedTo: []string{"IT", "Engineering"}},
		{Title: "Code of Conduct", Description: "Expected behaviour for all staff", Category: "HR", Status: grc.PolicyActive, AssignedTo: []string{"All"}},
		{Title: "Data Retention Policy", Description: "Retention periods per record class", Category: "Legal", Status: grc.PolicyDraft, AssignedTo: []string{"Legal"}},
	}
	for _, p := range policies {
		if _, err := svc.CreatePolicy(ctx, p); err != nil {
			return fmt.Errorf("policy %q: %w", p.Title, err)
		}
	}

	now := time.Now().UTC()
	reqs := []grc.NewComplianceRequirement{
		{Title: "GDPR Article 30 records", Category: "Privacy", Status: grc.CompliancePending, Priority: grc.PriorityHigh, Deadline: now.AddDate(0, 0, 14), AssignedTo: []string{"Legal"}},
		{Title: "SOC 2 evidence collection", Category: "Security", Status: grc.CompliancePending, Priority: grc.PriorityMedium, Deadline: now.AddDate(0, 2, 0), AssignedTo: []string{"IT"}},
		{Title: "Annual AML training", Category: "Financial", Status: grc.ComplianceCompleted, Priority: grc.PriorityLow, Deadline: now.AddDate(0, -1, 0), AssignedTo: []string{"All"}},
	}
	for _, r := range reqs {
		if _, err := svc.CreateComplianceRequirement(ctx, r); err != nil {
			return fmt.Errorf("requirement %q: %w", r.Title, err)
		}
	}

	_, err = svc.CreateWhistleblowingReport(ctx, grc.NewWhistleblowingReport{
		Title:       "Expense irregularities",
		Description: "Repeated duplicate claims in one cost centre",
		Category:    "Fraud",
		Priority:    grc.PriorityHigh,
		IsAnonymous: true,
	})
	return err
}
