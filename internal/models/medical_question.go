package models

import "time"

const (
	QuestionOpen     = "open"
	QuestionAssigned = "assigned"
	QuestionAnswered = "answered"
)

type MedicalQuestion struct {
	ID             string     `bson:"_id" json:"id"`
	PatientID      string     `bson:"patientId" json:"patientId"`
	PatientName    string     `bson:"patientName" json:"patientName"`
	Title          string     `bson:"title" json:"title"`
	Description    string     `bson:"description" json:"description"`
	Status         string     `bson:"status" json:"status"`
	AssignedTo     string     `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssignedToName string     `bson:"assignedToName,omitempty" json:"assignedToName,omitempty"`
	Answer         string     `bson:"answer,omitempty" json:"answer,omitempty"`
	AnsweredAt     *time.Time `bson:"answeredAt,omitempty" json:"answeredAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
}
