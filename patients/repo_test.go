package patients_test

import (
	"context"
	"encoding/json"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
	patientsTest "github.com/Chaaamah/EpilepticAI-Deployment-Test/patients/test"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/pointer"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/store"
	storeTest "github.com/Chaaamah/EpilepticAI-Deployment-Test/store/test"
)

var _ = Describe("Patients Repository", func() {
	var repo patients.PartitionRepository
	var kv *storeTest.FailingStore
	var ctx context.Context

	BeforeEach(func() {
		var err error
		kv = storeTest.NewFailingStore(storeTest.GetTestStore())
		ctx = context.Background()
		lifecycle := fxtest.NewLifecycle(GinkgoT())
		repo, err = patients.NewRepository(kv, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		Expect(repo).ToNot(BeNil())
		lifecycle.RequireStart()
	})

	readPartition := func(owner string) []*patients.Patient {
		data, err := kv.Get(ctx, store.PartitionKey(owner))
		Expect(err).ToNot(HaveOccurred())

		var partition []*patients.Patient
		Expect(json.Unmarshal(data, &partition)).To(Succeed())
		return partition
	}

	Describe("Create", func() {
		It("assigns sequential ids starting at one", func() {
			first, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			second, err := repo.Create(ctx, patientsTest.RandomPatient("b@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			Expect(first.Id).To(Equal(1))
			Expect(second.Id).To(Equal(2))
		})

		It("stamps the creation time", func() {
			created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			Expect(created.CreatedAt.IsZero()).To(BeFalse())
		})

		It("persists the record in the owner's partition", func() {
			created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			partition := readPartition("a@clinic.org")
			Expect(partition).To(HaveLen(1))
			Expect(partition[0].Id).To(Equal(created.Id))
			Expect(partition[0].Name).To(Equal(created.Name))
		})

		It("prepends new records to the listing", func() {
			older, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			newer, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			list, err := repo.List(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Id).To(Equal(newer.Id))
			Expect(list[1].Id).To(Equal(older.Id))
		})

		It("leaves the snapshot untouched when persistence fails", func() {
			kv.FailSet(store.PartitionKey("a@clinic.org"), fmt.Errorf("quota exceeded"))

			_, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).To(HaveOccurred())

			list, err := repo.List(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		var created *patients.Patient

		BeforeEach(func() {
			var err error
			created, err = repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("applies only the provided fields", func() {
			updated, err := repo.Update(ctx, created.Id, patients.PatientUpdate{
				RiskScore: pointer.To(42),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated).ToNot(BeNil())
			Expect(updated.RiskScore).To(Equal(42))
			Expect(updated.Name).To(Equal(created.Name))
			Expect(updated.Owner).To(Equal(created.Owner))
		})

		It("persists the updated partition", func() {
			_, err := repo.Update(ctx, created.Id, patients.PatientUpdate{
				HealthStatus: pointer.To(patients.StatusHigh),
			})
			Expect(err).ToNot(HaveOccurred())

			partition := readPartition("a@clinic.org")
			Expect(partition).To(HaveLen(1))
			Expect(partition[0].HealthStatus).To(Equal(patients.StatusHigh))
		})

		It("ignores unknown ids", func() {
			updated, err := repo.Update(ctx, created.Id+100, patients.PatientUpdate{
				RiskScore: pointer.To(42),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated).To(BeNil())
		})
	})

	Describe("Delete", func() {
		It("removes the record", func() {
			created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			Expect(repo.Delete(ctx, created.Id)).To(Succeed())

			_, err = repo.Get(ctx, created.Id)
			Expect(err).To(MatchError(patients.ErrNotFound))
		})

		It("removes the partition slot of the last record of an owner", func() {
			created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			_, err = repo.Create(ctx, patientsTest.RandomPatient("b@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			Expect(repo.Delete(ctx, created.Id)).To(Succeed())

			_, err = kv.Get(ctx, store.PartitionKey("a@clinic.org"))
			Expect(err).To(Equal(store.ErrNotFound))

			_, err = kv.Get(ctx, store.PartitionKey("b@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("ignores unknown ids", func() {
			Expect(repo.Delete(ctx, 12345)).To(Succeed())
		})

		It("does not reuse the id of a deleted record", func() {
			first, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			second, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			Expect(second.Id).To(BeNumerically(">", first.Id))

			Expect(repo.Delete(ctx, second.Id)).To(Succeed())

			third, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())
			Expect(third.Id).To(BeNumerically(">", second.Id))
		})
	})

	Describe("ListByOwner", func() {
		It("matches the owner byte-exactly", func() {
			_, err := repo.Create(ctx, patientsTest.RandomPatient("Doc@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			exact, err := repo.ListByOwner(ctx, "Doc@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(exact).To(HaveLen(1))

			folded, err := repo.ListByOwner(ctx, "doc@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(folded).To(BeEmpty())
		})
	})

	Describe("Partitions", func() {
		It("reports provisioned partitions", func() {
			exists, err := repo.HasPartition(ctx, "a@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeFalse())

			Expect(repo.EnsurePartition(ctx, "a@clinic.org")).To(Succeed())

			exists, err = repo.HasPartition(ctx, "a@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("provisions an empty partition exactly once", func() {
			Expect(repo.EnsurePartition(ctx, "a@clinic.org")).To(Succeed())

			created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			// A second ensure must not clobber the now populated slot
			Expect(repo.EnsurePartition(ctx, "a@clinic.org")).To(Succeed())

			partition := readPartition("a@clinic.org")
			Expect(partition).To(HaveLen(1))
			Expect(partition[0].Id).To(Equal(created.Id))
		})

		It("replaces a partition wholesale", func() {
			_, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			replacement := patientsTest.RandomPatient("a@clinic.org")
			replacement.Id = 77
			Expect(repo.WritePartition(ctx, "a@clinic.org", []*patients.Patient{&replacement})).To(Succeed())

			list, err := repo.ListByOwner(ctx, "a@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Id).To(Equal(77))
		})

		It("leaves snapshot and slot untouched when a partition write fails", func() {
			created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			kv.FailSet(store.PartitionKey("a@clinic.org"), fmt.Errorf("quota exceeded"))

			replacement := patientsTest.RandomPatient("a@clinic.org")
			replacement.Id = 77
			err = repo.WritePartition(ctx, "a@clinic.org", []*patients.Patient{&replacement})
			Expect(err).To(HaveOccurred())

			list, err := repo.ListByOwner(ctx, "a@clinic.org")
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Id).To(Equal(created.Id))

			partition := readPartition("a@clinic.org")
			Expect(partition).To(HaveLen(1))
			Expect(partition[0].Id).To(Equal(created.Id))

			// Once the store recovers the same write goes through
			kv.Restore(store.PartitionKey("a@clinic.org"))
			Expect(repo.WritePartition(ctx, "a@clinic.org", []*patients.Patient{&replacement})).To(Succeed())
		})

		It("removes a partition and its records", func() {
			_, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
			Expect(err).ToNot(HaveOccurred())

			Expect(repo.RemovePartition(ctx, "a@clinic.org")).To(Succeed())

			_, err = kv.Get(ctx, store.PartitionKey("a@clinic.org"))
			Expect(err).To(Equal(store.ErrNotFound))

			list, err := repo.List(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})
})

var _ = Describe("Patients Repository Initialization", func() {
	It("loads all partitions and continues the id sequence", func() {
		kv := storeTest.GetTestStore()
		ctx := context.Background()

		a := patientsTest.RandomPatient("a@clinic.org")
		a.Id = 3
		b := patientsTest.RandomPatient("b@clinic.org")
		b.Id = 8

		for _, patient := range []*patients.Patient{&a, &b} {
			data, err := json.Marshal([]*patients.Patient{patient})
			Expect(err).ToNot(HaveOccurred())
			Expect(kv.Set(ctx, store.PartitionKey(patient.Owner), data)).To(Succeed())
		}

		lifecycle := fxtest.NewLifecycle(GinkgoT())
		repo, err := patients.NewRepository(kv, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()

		list, err := repo.List(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(list).To(HaveLen(2))

		created, err := repo.Create(ctx, patientsTest.RandomPatient("a@clinic.org"))
		Expect(err).ToNot(HaveOccurred())
		Expect(created.Id).To(Equal(9))
	})

	It("defaults a missing creation time", func() {
		kv := storeTest.GetTestStore()
		ctx := context.Background()

		Expect(kv.Set(ctx, store.PartitionKey("a@clinic.org"),
			[]byte(`[{"id":1,"owner":"a@clinic.org","name":"Jane Doe"}]`))).To(Succeed())

		lifecycle := fxtest.NewLifecycle(GinkgoT())
		repo, err := patients.NewRepository(kv, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		lifecycle.RequireStart()

		loaded, err := repo.Get(ctx, 1)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded.CreatedAt.IsZero()).To(BeFalse())
	})
})
