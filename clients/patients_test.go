package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clients"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
	patientsTest "github.com/Chaaamah/EpilepticAI-Deployment-Test/patients/test"
)

var _ = Describe("Remote Patient Repository", func() {
	var backend *httptest.Server
	var repo patients.Repository
	var ctx context.Context
	var requests []*http.Request

	startBackend := func(handler http.HandlerFunc) {
		backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r)
			handler(w, r)
		}))

		var err error
		repo, err = clients.NewPatientRepository(&clients.Config{
			Enabled:    true,
			ServiceUrl: backend.URL,
			Token:      "service-token",
			Timeout:    time.Second,
		})
		Expect(err).ToNot(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
	})

	AfterEach(func() {
		backend.Close()
	})

	It("lists records from the backend", func() {
		expected := patientsTest.RandomPatient("doc@clinic.org")
		expected.Id = 1

		startBackend(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodGet))
			Expect(r.URL.Path).To(Equal("/patients"))
			Expect(json.NewEncoder(w).Encode([]*patients.Patient{&expected})).To(Succeed())
		})

		list, err := repo.List(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Id).To(Equal(1))
	})

	It("sends the bearer token", func() {
		startBackend(func(w http.ResponseWriter, r *http.Request) {
			Expect(json.NewEncoder(w).Encode([]*patients.Patient{})).To(Succeed())
		})

		_, err := repo.List(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(requests).To(HaveLen(1))
		Expect(requests[0].Header.Get("Authorization")).To(Equal("Bearer service-token"))
	})

	It("narrows listings by owner", func() {
		startBackend(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Query().Get("owner")).To(Equal("doc@clinic.org"))
			Expect(json.NewEncoder(w).Encode([]*patients.Patient{})).To(Succeed())
		})

		_, err := repo.ListByOwner(ctx, "doc@clinic.org")
		Expect(err).ToNot(HaveOccurred())
	})

	It("treats a missing record as nil on Get", func() {
		startBackend(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		patient, err := repo.Get(ctx, 999)
		Expect(err).ToNot(HaveOccurred())
		Expect(patient).To(BeNil())
	})

	It("treats a missing record as a no-op on Delete", func() {
		startBackend(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		Expect(repo.Delete(ctx, 999)).To(Succeed())
	})

	It("surfaces backend failures", func() {
		startBackend(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := repo.List(ctx)
		Expect(err).To(HaveOccurred())
	})
})
