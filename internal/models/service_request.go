package models

import "time"

const (
	RequestPending   = "pending"
	RequestAssigned  = "assigned"
	RequestCompleted = "completed"

	// ServiceEmergency is the reserved service type used by the emergency flow.
	ServiceEmergency = "emergency"
)

type ServiceRequest struct {
	ID                   string       `bson:"_id" json:"id"`
	PatientID            string       `bson:"patientId" json:"patientId"`
	PatientName          string       `bson:"patientName" json:"patientName"`
	PatientAge           string       `bson:"patientAge" json:"patientAge"`
	ServiceType          string       `bson:"serviceType" json:"serviceType"`
	Details              string       `bson:"details" json:"details"`
	Address              string       `bson:"address" json:"address"`
	Coordinates          *Coordinates `bson:"coordinates,omitempty" json:"coordinates"`
	Status               string       `bson:"status" json:"status"`
	AssignedNurse        *string      `bson:"assignedNurse,omitempty" json:"assignedNurse"`
	BroadcastToAllNurses bool         `bson:"broadcastToAllNurses" json:"broadcastToAllNurses"`
	Cost                 *float64     `bson:"cost,omitempty" json:"cost,omitempty"`
	IsPaid               *bool        `bson:"isPaid,omitempty" json:"isPaid,omitempty"`
	Emergency            *bool        `bson:"emergency,omitempty" json:"emergency,omitempty"`
	CreatedAt            time.Time    `bson:"createdAt" json:"createdAt"`
}
