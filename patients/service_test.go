package patients_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
	patientsTest "github.com/Chaaamah/EpilepticAI-Deployment-Test/patients/test"
	storeTest "github.com/Chaaamah/EpilepticAI-Deployment-Test/store/test"
)

var _ = Describe("Patients Service", func() {
	var service patients.Service
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		lifecycle := fxtest.NewLifecycle(GinkgoT())
		repo, err := patients.NewRepository(storeTest.GetTestStore(), zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		service, err = patients.NewService(repo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()
	})

	Describe("Create", func() {
		It("assigns the record to the given owner", func() {
			patient := patientsTest.RandomPatient("ignored@clinic.org")
			created, err := service.Create(ctx, "doc@clinic.org", patient)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Owner).To(Equal("doc@clinic.org"))
		})
	})

	Describe("GetByName", func() {
		It("matches names case-insensitively", func() {
			patient := patientsTest.RandomPatient("doc@clinic.org")
			patient.Name = "Jane Doe"
			_, err := service.Create(ctx, "doc@clinic.org", patient)
			Expect(err).ToNot(HaveOccurred())

			found, err := service.GetByName(ctx, "jane doe")
			Expect(err).ToNot(HaveOccurred())
			Expect(found.Name).To(Equal("Jane Doe"))
		})

		It("returns ErrNotFound for unknown names", func() {
			_, err := service.GetByName(ctx, "nobody")
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})

	Describe("ListByStatus", func() {
		It("matches statuses case-insensitively", func() {
			patient := patientsTest.RandomPatient("doc@clinic.org")
			patient.HealthStatus = "Critical"
			_, err := service.Create(ctx, "doc@clinic.org", patient)
			Expect(err).ToNot(HaveOccurred())

			list, err := service.ListByStatus(ctx, patients.StatusCritical)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})
	})

	Describe("ListCritical", func() {
		It("includes patients flagged critical or with a high risk score", func() {
			critical := patientsTest.RandomPatient("doc@clinic.org")
			critical.HealthStatus = patients.StatusCritical
			critical.RiskScore = 10

			risky := patientsTest.RandomPatient("doc@clinic.org")
			risky.HealthStatus = patients.StatusMedium
			risky.RiskScore = patients.CriticalRiskScore

			calm := patientsTest.StablePatient("doc@clinic.org")

			for _, patient := range []patients.Patient{critical, risky, calm} {
				_, err := service.Create(ctx, "doc@clinic.org", patient)
				Expect(err).ToNot(HaveOccurred())
			}

			list, err := service.ListCritical(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})
	})

	Describe("Count", func() {
		It("counts all records and per-owner records", func() {
			_, err := service.Create(ctx, "a@clinic.org", patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Create(ctx, "a@clinic.org", patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Create(ctx, "b@clinic.org", patientsTest.RandomPatient("b@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			total, err := service.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(3))

			owned, err := service.CountByOwner(ctx, "a@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(owned).To(Equal(2))
		})
	})
})
