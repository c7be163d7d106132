package graph

import (
	"time"

	"github.com/opencivic/civicassist/facts"
)

const bostonRPPSourceURL = "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit"

// BostonRPP builds an in-memory graph store seeded with the Boston Resident
// Parking Permit process: its steps, requirements, acceptable documents, and
// the parking clerk office.
func BostonRPP() *MemoryStore {
	verified := time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC)
	cite := Citation{
		SourceURL:    bostonRPPSourceURL,
		LastVerified: verified,
		Confidence:   facts.ConfidenceHigh,
	}

	m := NewMemoryStore()

	m.AddProcess(&Process{
		ProcessID:    "boston_resident_parking_permit",
		Name:         "Boston Resident Parking Permit",
		Description:  "Apply for a resident parking permit to park in a posted resident permit area.",
		Category:     "permits",
		Jurisdiction: "City of Boston",
		Citation:     cite,
	})

	steps := []*Step{
		{
			StepID:      "rpp_step_1_check_eligibility",
			ProcessID:   "boston_resident_parking_permit",
			Name:        "Check Eligibility",
			Description: "Confirm your vehicle and residency meet the program requirements.",
			Order:       1,
			Citation:    cite,
		},
		{
			StepID:      "rpp_step_2_gather_documents",
			ProcessID:   "boston_resident_parking_permit",
			Name:        "Gather Required Documents",
			Description: "Collect proof of residency and your Massachusetts vehicle registration.",
			Order:       2,
			Citation:    cite,
		},
		{
			StepID:      "rpp_step_3_submit_application",
			ProcessID:   "boston_resident_parking_permit",
			Name:        "Submit Application",
			Description: "Submit your application online, by mail, or in person at the parking clerk.",
			Order:       3,
			Citation:    cite,
		},
	}
	for _, s := range steps {
		m.AddStep(s)
	}
	m.LinkStepDependency("rpp_step_2_gather_documents", "rpp_step_1_check_eligibility")
	m.LinkStepDependency("rpp_step_3_submit_application", "rpp_step_2_gather_documents")

	reqs := []*Requirement{
		{
			RequirementID:    "req_residency_proof",
			Text:             "Provide one proof of Boston residency dated within the last 30 days.",
			FactID:           "rpp.documents.residency_proof",
			AppliesToProcess: "boston_resident_parking_permit",
			HardGate:         true,
			Citation:         cite,
		},
		{
			RequirementID:    "req_vehicle_registration",
			Text:             "Vehicle must be registered in Massachusetts at your Boston address.",
			FactID:           "rpp.documents.vehicle_registration",
			AppliesToProcess: "boston_resident_parking_permit",
			HardGate:         true,
			Citation:         cite,
		},
		{
			RequirementID:    "req_residency_duration",
			Text:             "You must currently reside in the neighborhood where you are requesting a permit.",
			FactID:           "rpp.eligibility.residency_duration",
			AppliesToProcess: "boston_resident_parking_permit",
			HardGate:         true,
			Citation:         cite,
		},
		{
			RequirementID:    "req_vehicle_class",
			Text:             "Vehicle must be a passenger vehicle or motorcycle, not commercially plated.",
			FactID:           "rpp.eligibility.vehicle_class",
			AppliesToProcess: "boston_resident_parking_permit",
			HardGate:         true,
			Citation:         cite,
		},
	}
	for _, r := range reqs {
		m.AddRequirement(r)
	}

	docs := []*DocumentType{
		{DocTypeID: "proof.utility_bill", Name: "Utility Bill", FactID: "rpp.documents.residency_proof", FreshnessDays: 30, NameMatchRequired: true, AddressMatchRequired: true, Examples: []string{"gas bill", "electric bill", "water bill"}, Citation: cite},
		{DocTypeID: "proof.lease_agreement", Name: "Lease Agreement", FactID: "rpp.documents.residency_proof", FreshnessDays: 365, NameMatchRequired: true, AddressMatchRequired: true, Citation: cite},
		{DocTypeID: "proof.property_tax", Name: "Property Tax Bill", FactID: "rpp.documents.residency_proof", FreshnessDays: 365, NameMatchRequired: true, AddressMatchRequired: true, Citation: cite},
		{DocTypeID: "proof.bank_statement", Name: "Bank Statement", FactID: "rpp.documents.residency_proof", FreshnessDays: 30, NameMatchRequired: true, AddressMatchRequired: true, Citation: cite},
		{DocTypeID: "proof.drivers_license", Name: "Driver's License", FactID: "rpp.documents.residency_proof", FreshnessDays: 0, NameMatchRequired: true, AddressMatchRequired: true, Citation: cite},
		{DocTypeID: "proof.vehicle_registration_ma", Name: "MA Vehicle Registration", FactID: "rpp.documents.vehicle_registration", FreshnessDays: 0, NameMatchRequired: true, AddressMatchRequired: true, Citation: cite},
		{DocTypeID: "proof.vehicle_title", Name: "Vehicle Title", FactID: "rpp.documents.vehicle_registration", FreshnessDays: 0, NameMatchRequired: true, AddressMatchRequired: false, Citation: cite},
	}
	for _, d := range docs {
		m.AddDocumentType(d)
	}

	m.AddOffice(&Office{
		OfficeID: "boston_parking_clerk",
		Name:     "Office of the Parking Clerk",
		Address:  "1 City Hall Square, Boston, MA 02201",
		Room:     "Room 224",
		Hours:    "Mon-Fri, 9:00-4:30",
		Phone:    "617-635-4410",
		Citation: cite,
	})
	m.LinkStepOffice("rpp_step_3_submit_application", "boston_parking_clerk")

	for _, id := range []string{"proof.utility_bill", "proof.lease_agreement", "proof.property_tax", "proof.bank_statement", "proof.drivers_license"} {
		m.LinkStepDocument("rpp_step_2_gather_documents", id)
		m.LinkRequirementDocument("req_residency_proof", id)
	}
	for _, id := range []string{"proof.vehicle_registration_ma", "proof.vehicle_title"} {
		m.LinkStepDocument("rpp_step_2_gather_documents", id)
		m.LinkRequirementDocument("req_vehicle_registration", id)
	}

	return m
}
