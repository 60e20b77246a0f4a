package models

import (
	"slices"
	"time"
)

// Role is the account type a user registered with. It never changes after creation.
type Role string

const (
	RolePatient Role = "patient"
	RoleNurse   Role = "nurse"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleNurse, RoleAdmin:
		return true
	}
	return false
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// PatientDetails holds the fields only patients carry.
type PatientDetails struct {
	DateOfBirth       string   `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender            string   `bson:"gender" json:"gender"`
	EmergencyContact  string   `bson:"emergencyContact" json:"emergencyContact"`
	BloodType         string   `bson:"bloodType" json:"bloodType"`
	MedicalConditions []string `bson:"medicalConditions" json:"medicalConditions"`
	Allergies         []string `bson:"allergies" json:"allergies"`
}

// NurseDetails holds the fields only nurses carry.
type NurseDetails struct {
	LicenseID          string      `bson:"licenseId" json:"licenseId"`
	Specializations    []string    `bson:"specializations" json:"specializations"`
	Experience         string      `bson:"experience" json:"experience"`
	AvailabilityStatus bool        `bson:"availabilityStatus" json:"availabilityStatus"`
	Location           Coordinates `bson:"location" json:"location"`
	Balance            float64     `bson:"balance" json:"balance"`
	TotalEarned        float64     `bson:"totalEarned" json:"totalEarned"`
}

// User is a patient, nurse or admin account. The role decides which of the
// embedded detail blocks is set; on the wire every field is flat.
type User struct {
	ID               string     `bson:"_id" json:"id"`
	Email            string     `bson:"email" json:"email"`
	Password         string     `bson:"password" json:"password,omitempty"` // bcrypt hash, fixture store only
	Role             Role       `bson:"userType" json:"userType"`
	Name             string     `bson:"name" json:"name"`
	Phone            string     `bson:"phone" json:"phone"`
	Address          string     `bson:"address" json:"address"`
	ProfileComplete  bool       `bson:"profileComplete" json:"profileComplete"`
	ProfileImage     string     `bson:"profileImage" json:"profileImage"`
	IsActive         bool       `bson:"isActive" json:"isActive"`
	RegistrationDate time.Time  `bson:"registrationDate" json:"registrationDate"`
	ActivationDate   *time.Time `bson:"activationDate,omitempty" json:"activationDate,omitempty"`
	NationalID       string     `bson:"nationalId,omitempty" json:"nationalId,omitempty"`

	*PatientDetails `bson:"patient,omitempty"`
	*NurseDetails   `bson:"nurse,omitempty"`
}

// Normalize drops the detail block that does not belong to the user's role
// and allocates the one that does.
func (u *User) Normalize() {
	switch u.Role {
	case RolePatient:
		u.NurseDetails = nil
		if u.PatientDetails == nil {
			u.PatientDetails = &PatientDetails{}
		}
	case RoleNurse:
		u.PatientDetails = nil
		if u.NurseDetails == nil {
			u.NurseDetails = &NurseDetails{}
		}
	default:
		u.PatientDetails = nil
		u.NurseDetails = nil
	}
	if u.Role != RolePatient {
		u.NationalID = ""
	}
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	if u.ActivationDate != nil {
		t := *u.ActivationDate
		c.ActivationDate = &t
	}
	if u.PatientDetails != nil {
		p := *u.PatientDetails
		p.MedicalConditions = slices.Clone(p.MedicalConditions)
		p.Allergies = slices.Clone(p.Allergies)
		c.PatientDetails = &p
	}
	if u.NurseDetails != nil {
		n := *u.NurseDetails
		n.Specializations = slices.Clone(n.Specializations)
		c.NurseDetails = &n
	}
	return &c
}

// Public returns a copy safe to hand to clients: the password hash is removed.
func (u *User) Public() *User {
	c := u.Clone()
	c.Password = ""
	return c
}
