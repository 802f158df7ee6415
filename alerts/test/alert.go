package test

import (
	"time"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/alerts"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/test"
)

func RandomRemoteAlert(patientId int) alerts.RemoteAlert {
	return alerts.RemoteAlert{
		Id:          test.Faker.IntBetween(100000, 999999),
		PatientId:   patientId,
		Type:        alerts.KindMedicationIntake,
		Title:       "Medication Taken",
		Message:     test.Faker.Lorem().Sentence(6),
		TriggeredAt: time.Now().Add(-time.Duration(test.Faker.IntBetween(1, 120)) * time.Minute),
	}
}
