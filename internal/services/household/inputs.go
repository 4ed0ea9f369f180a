package household

import (
	"strings"
	"time"

	"hoaportal/internal/models"
	"hoaportal/internal/validation"
)

// Inputs follow the profile sections: a nil pointer means the field was not
// submitted and keeps its stored value.

type MemberInput struct {
	FullName         *string `json:"full_name"`
	Relationship     *string `json:"relationship"`
	DateOfBirth      *string `json:"date_of_birth"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	EmergencyContact *bool   `json:"emergency_contact"`
	HasKeyAccess     *bool   `json:"has_key_access"`
	IsMinor          *bool   `json:"is_minor"`
}

func (in MemberInput) apply(v *validation.Validator, m *models.HouseholdMember) {
	setTrimmed(&m.FullName, in.FullName)
	set(&m.Relationship, in.Relationship)
	setDate(v, "date_of_birth", &m.DateOfBirth, in.DateOfBirth)
	setTrimmed(&m.Phone, in.Phone)
	setTrimmed(&m.Email, in.Email)
	set(&m.EmergencyContact, in.EmergencyContact)
	set(&m.HasKeyAccess, in.HasKeyAccess)
	set(&m.IsMinor, in.IsMinor)
}

func validateMember(v *validation.Validator, m *models.HouseholdMember, _ time.Time) {
	v.Required("full_name", m.FullName)
	v.MaxLength("full_name", m.FullName, validation.MaxNameLength)
	v.Required("relationship", m.Relationship)
	v.OneOf("relationship", m.Relationship, validation.Relationships)
	v.Phone("phone", m.Phone)
	if m.Email != "" {
		v.Email("email", m.Email)
	}
}

type PetInput struct {
	Name               *string  `json:"name"`
	PetType            *string  `json:"pet_type"`
	Breed              *string  `json:"breed"`
	Color              *string  `json:"color"`
	Weight             *float64 `json:"weight"`
	DateOfBirth        *string  `json:"date_of_birth"`
	MicrochipNumber    *string  `json:"microchip_number"`
	VaccinationCurrent *bool    `json:"vaccination_current"`
	VaccinationExpiry  *string  `json:"vaccination_expiry"`
	SpecialNeeds       *string  `json:"special_needs"`
}

func (in PetInput) apply(v *validation.Validator, p *models.Pet) {
	setTrimmed(&p.Name, in.Name)
	set(&p.PetType, in.PetType)
	setTrimmed(&p.Breed, in.Breed)
	setTrimmed(&p.Color, in.Color)
	if in.Weight != nil {
		w := *in.Weight
		p.Weight = &w
	}
	setDate(v, "date_of_birth", &p.DateOfBirth, in.DateOfBirth)
	setTrimmed(&p.MicrochipNumber, in.MicrochipNumber)
	set(&p.VaccinationCurrent, in.VaccinationCurrent)
	setDate(v, "vaccination_expiry", &p.VaccinationExpiry, in.VaccinationExpiry)
	set(&p.SpecialNeeds, in.SpecialNeeds)
}

func validatePet(v *validation.Validator, p *models.Pet, _ time.Time) {
	v.Required("name", p.Name)
	v.MaxLength("name", p.Name, validation.MaxPetNameLength)
	v.Required("pet_type", p.PetType)
	v.OneOf("pet_type", p.PetType, validation.PetTypes)
	v.MaxLength("breed", p.Breed, validation.MaxPetNameLength)
	v.MaxLength("color", p.Color, validation.MaxShortTextLength)
	v.MaxLength("microchip_number", p.MicrochipNumber, validation.MaxShortTextLength)
	v.MaxLength("special_needs", p.SpecialNeeds, validation.MaxTextLength)
	if p.Weight != nil {
		v.Positive("weight", *p.Weight)
	}
}

type VehicleInput struct {
	LicensePlate        *string `json:"license_plate"`
	Make                *string `json:"make"`
	Model               *string `json:"model"`
	Year                *int    `json:"year"`
	Color               *string `json:"color"`
	VehicleType         *string `json:"vehicle_type"`
	IsPrimary           *bool   `json:"is_primary"`
	ParkingPermitNumber *string `json:"parking_permit_number"`
}

func (in VehicleInput) apply(v *validation.Validator, veh *models.Vehicle) {
	if in.LicensePlate != nil {
		veh.LicensePlate = strings.ToUpper(strings.TrimSpace(*in.LicensePlate))
	}
	setTrimmed(&veh.Make, in.Make)
	setTrimmed(&veh.Model, in.Model)
	set(&veh.Year, in.Year)
	setTrimmed(&veh.Color, in.Color)
	set(&veh.VehicleType, in.VehicleType)
	set(&veh.IsPrimary, in.IsPrimary)
	setTrimmed(&veh.ParkingPermitNumber, in.ParkingPermitNumber)
}

func validateVehicle(v *validation.Validator, veh *models.Vehicle, now time.Time) {
	v.Required("license_plate", veh.LicensePlate)
	v.LicensePlate("license_plate", veh.LicensePlate)
	v.Required("make", veh.Make)
	v.MaxLength("make", veh.Make, validation.MaxShortTextLength)
	v.Required("model", veh.Model)
	v.MaxLength("model", veh.Model, validation.MaxShortTextLength)
	v.Between("year", veh.Year, validation.MinVehicleYear, now.Year()+1)
	v.Required("color", veh.Color)
	v.Required("vehicle_type", veh.VehicleType)
	v.OneOf("vehicle_type", veh.VehicleType, validation.VehicleTypes)
	v.MaxLength("parking_permit_number", veh.ParkingPermitNumber, validation.MaxShortTextLength)
}

func set[T any](dst *T, in *T) {
	if in != nil {
		*dst = *in
	}
}

func setTrimmed(dst *string, in *string) {
	if in != nil {
		*dst = strings.TrimSpace(*in)
	}
}

// setDate parses a YYYY-MM-DD value; blank clears the date.
func setDate(v *validation.Validator, field string, dst **time.Time, in *string) {
	if in == nil {
		return
	}
	value := strings.TrimSpace(*in)
	if value == "" {
		*dst = nil
		return
	}
	d, err := time.Parse(validation.DateLayout, value)
	if err != nil {
		v.AddError(field, "must be a date in YYYY-MM-DD format")
		return
	}
	*dst = &d
}
