package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record holds the columns shared by everything a resident registers under
// their account.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Base gives generic code access to the shared columns.
func (r *Record) Base() *Record { return r }

// HouseholdMember is a person living with the resident. Names are unique
// per resident.
type HouseholdMember struct {
	Record
	User             *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FullName         string     `gorm:"size:255;not null" json:"full_name"`
	Relationship     string     `gorm:"size:20;not null" json:"relationship"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth"`
	Phone            string     `gorm:"size:20" json:"phone"`
	Email            string     `gorm:"size:254" json:"email"`
	EmergencyContact bool       `gorm:"default:false" json:"emergency_contact"`
	HasKeyAccess     bool       `gorm:"default:false" json:"has_key_access"`
	IsMinor          bool       `gorm:"default:false" json:"is_minor"`
}

// Clashes reports whether m and o are different members of one household
// with the same name.
func (m *HouseholdMember) Clashes(o *HouseholdMember) bool {
	return m.ID != o.ID && m.UserID == o.UserID && m.FullName == o.FullName
}

func (m *HouseholdMember) String() string {
	return fmt.Sprintf("%s (%s)", m.FullName, m.Relationship)
}

type Pet struct {
	Record
	User               *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	PetType            string     `gorm:"size:20;not null" json:"pet_type"`
	Breed              string     `gorm:"size:100" json:"breed"`
	Color              string     `gorm:"size:50" json:"color"`
	Weight             *float64   `gorm:"type:numeric(5,2)" json:"weight"`
	DateOfBirth        *time.Time `gorm:"type:date" json:"date_of_birth"`
	MicrochipNumber    string     `gorm:"size:50" json:"microchip_number"`
	VaccinationCurrent bool       `gorm:"default:false" json:"vaccination_current"`
	VaccinationExpiry  *time.Time `gorm:"type:date" json:"vaccination_expiry"`
	SpecialNeeds       string     `gorm:"type:text" json:"special_needs"`
}

func (p *Pet) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.PetType)
}

// Vehicle is a registered car or other vehicle. Plates are stored upper
// case and are unique per resident.
type Vehicle struct {
	Record
	User                *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LicensePlate        string `gorm:"size:20;not null" json:"license_plate"`
	Make                string `gorm:"size:50;not null" json:"make"`
	Model               string `gorm:"size:50;not null" json:"model"`
	Year                int    `gorm:"not null" json:"year"`
	Color               string `gorm:"size:30;not null" json:"color"`
	VehicleType         string `gorm:"size:20;default:'car'" json:"vehicle_type"`
	IsPrimary           bool   `gorm:"default:false" json:"is_primary"`
	ParkingPermitNumber string `gorm:"size:50" json:"parking_permit_number"`
}

func (v *Vehicle) Clashes(o *Vehicle) bool {
	return v.ID != o.ID && v.UserID == o.UserID && v.LicensePlate == o.LicensePlate
}

// Summary omits the plate.
func (v *Vehicle) Summary() string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("%s (%s)", v.Summary(), v.LicensePlate)
}
