package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Institution types accepted by the directory.
const (
	TypePrivate          = "Private"
	TypeGovernment       = "Government"
	TypeDeemedUniversity = "Deemed University"
	TypePublicUniversity = "Public University"
	TypeAutonomous       = "Autonomous Institution"
	TypeOther            = "Other"
)

var InstitutionTypes = []string{
	TypePrivate,
	TypeGovernment,
	TypeDeemedUniversity,
	TypePublicUniversity,
	TypeAutonomous,
	TypeOther,
}

type Location struct {
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Country string `bson:"country" json:"country"`
	Pincode string `bson:"pincode" json:"pincode"`
}

type ContactInfo struct {
	Email   string `bson:"email" json:"email" validate:"omitempty,email"`
	Phone   string `bson:"phone" json:"phone" validate:"omitempty,phone"`
	Address string `bson:"address" json:"address"`
	Website string `bson:"website" json:"website" validate:"omitempty,url"`
}

type Course struct {
	Name        string `bson:"name" json:"name" validate:"required"`
	Duration    string `bson:"duration" json:"duration"`
	Fee         Number `bson:"fee" json:"fee" validate:"gte=0"`
	Eligibility string `bson:"eligibility,omitempty" json:"eligibility,omitempty"`
}

type Placements struct {
	AverageSalary Number `bson:"average_salary" json:"average_salary" validate:"gte=0"`
	HighestSalary Number `bson:"highest_salary" json:"highest_salary" validate:"gte=0"`
	PlacementRate Number `bson:"placement_rate" json:"placement_rate" validate:"gte=0,lte=100"`
}

type Institution struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name                string             `bson:"name" json:"name" validate:"required"`
	Type                string             `bson:"type" json:"type" validate:"required,institution_type"`
	Location            Location           `bson:"location" json:"location"`
	EstablishedYear     Text               `bson:"established_year" json:"established_year"`
	Accreditation       string             `bson:"accreditation" json:"accreditation"`
	TotalStudents       int                `bson:"total_students" json:"total_students" validate:"gte=0"`
	AdmissionProcess    string             `bson:"admission_process" json:"admission_process"`
	RequiredDocuments   []string           `bson:"required_documents" json:"required_documents" validate:"min=1,dive,required"`
	ContactInfo         ContactInfo        `bson:"contact_info" json:"contact_info"`
	CoursesOffered      []Course           `bson:"courses_offered" json:"courses_offered" validate:"dive"`
	EligibilityCriteria EligibilityList    `bson:"eligibility_criteria" json:"eligibility_criteria" validate:"dive"`
	AcceptanceExams     []string           `bson:"acceptance_exams" json:"acceptance_exams" validate:"min=1,dive,required"`
	TopRecruiters       []string           `bson:"top_recruiters" json:"top_recruiters" validate:"min=1,dive,required"`
	Placements          Placements         `bson:"placements" json:"placements"`
	ImageURL            string             `bson:"image_url" json:"image_url"`
	Rating              float64            `bson:"rating" json:"rating" validate:"gte=1,lte=5"`
	FieldTaught         []string           `bson:"field_taught" json:"field_taught" validate:"min=1,dive,required"`
	Score               float64            `bson:"score" json:"score"`
	CreatedAt           time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt           time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ComputeScore is the ranking formula used when an imported record carries
// no score of its own.
func (i *Institution) ComputeScore() float64 {
	p := i.Placements
	return float64(p.AverageSalary)*float64(p.PlacementRate)/100 + i.Rating*1000
}
