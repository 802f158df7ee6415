package test

import (
	"time"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/pointer"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/test"
)

var statuses = []string{
	patients.StatusCritical,
	patients.StatusHigh,
	patients.StatusMedium,
	patients.StatusStable,
	patients.StatusLow,
}

func RandomPatient(owner string) patients.Patient {
	return patients.Patient{
		Owner:            owner,
		Name:             test.Faker.Person().Name(),
		Age:              test.Faker.IntBetween(5, 85),
		Email:            pointer.To(test.Faker.Internet().Email()),
		Phone:            pointer.To(test.Faker.Phone().Number()),
		HealthStatus:     test.Faker.RandomStringElement(statuses),
		RiskScore:        test.Faker.IntBetween(0, 100),
		HeartRate:        test.Faker.IntBetween(45, 130),
		EpilepsyType:     pointer.To(test.Faker.RandomStringElement([]string{"focal", "generalized", "unknown"})),
		SeizureFrequency: pointer.To(test.Faker.RandomStringElement([]string{"daily", "weekly", "monthly"})),
		Medications:      pointer.To(test.Faker.Lorem().Word()),
		LastVisit:        pointer.To(test.Faker.Time().ISO8601(time.Now())[:10]),
	}
}

func StablePatient(owner string) patients.Patient {
	patient := RandomPatient(owner)
	patient.HealthStatus = patients.StatusStable
	patient.RiskScore = test.Faker.IntBetween(0, 29)
	patient.HeartRate = test.Faker.IntBetween(61, 99)
	return patient
}

func CriticalPatient(owner string) patients.Patient {
	patient := RandomPatient(owner)
	patient.HealthStatus = patients.StatusCritical
	patient.RiskScore = test.Faker.IntBetween(81, 100)
	return patient
}
