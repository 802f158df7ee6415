package test

import (
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clinicians"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/pointer"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/test"
)

func RandomDoctor() clinicians.Clinician {
	return clinicians.Clinician{
		Email:          test.Faker.Internet().Email(),
		Name:           pointer.To("Dr. " + test.Faker.Person().Name()),
		Phone:          pointer.To(test.Faker.Phone().Number()),
		Location:       pointer.To(test.Faker.Address().City()),
		Specialization: pointer.To(test.Faker.RandomStringElement([]string{"Neurologist", "Epileptologist"})),
		Department:     pointer.To(test.Faker.RandomStringElement([]string{"Neurology", "Epilepsy Center"})),
		YearsExperience: pointer.To(
			test.Faker.RandomStringElement([]string{"5", "10", "15", "20"}),
		),
	}
}
