package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName string    `gorm:"not null" json:"full_name"`
	Phone    string    `gorm:"size:20" json:"phone"`
	Role     Role      `gorm:"size:10;not null;default:'guest'" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	// Contact preferences
	PreferredContactMethod string `gorm:"size:10;default:'email'" json:"preferred_contact_method"`
	BestContactTime        string `gorm:"size:15;default:'anytime'" json:"best_contact_time"`
	LanguagePreference     string `gorm:"size:10;default:'en'" json:"language_preference"`
	TimezoneSetting        string `gorm:"size:50;default:'UTC'" json:"timezone_setting"`

	// Residence. Block+lot and unit number are unique when non-blank; the
	// partial indexes are created in InitDB.
	Block          string     `gorm:"size:10" json:"block"`
	Lot            string     `gorm:"size:10" json:"lot"`
	UnitNumber     string     `gorm:"size:10" json:"unit_number"`
	MoveInDate     *time.Time `gorm:"type:date" json:"move_in_date"`
	PropertyType   string     `gorm:"size:20" json:"property_type"`
	ParkingSpaces  int        `gorm:"default:0" json:"parking_spaces"`
	MailboxNumber  string     `gorm:"size:10" json:"mailbox_number"`

	// Emergency contacts
	EmergencyContact               string `json:"emergency_contact"`
	EmergencyPhone                 string `gorm:"size:20" json:"emergency_phone"`
	EmergencyRelationship          string `gorm:"size:50" json:"emergency_relationship"`
	SecondaryEmergencyContact      string `json:"secondary_emergency_contact"`
	SecondaryEmergencyPhone        string `gorm:"size:20" json:"secondary_emergency_phone"`
	SecondaryEmergencyRelationship string `gorm:"size:50" json:"secondary_emergency_relationship"`
	MedicalConditions              string `gorm:"type:text" json:"medical_conditions"`
	SpecialNeeds                   string `gorm:"type:text" json:"special_needs"`

	// Privacy and directory
	IsDirectoryVisible     bool   `gorm:"default:false" json:"is_directory_visible"`
	DirectoryShowName      bool   `gorm:"default:true" json:"directory_show_name"`
	DirectoryShowUnit      bool   `gorm:"default:true" json:"directory_show_unit"`
	DirectoryShowPhone     bool   `gorm:"default:false" json:"directory_show_phone"`
	DirectoryShowEmail     bool   `gorm:"default:false" json:"directory_show_email"`
	DirectoryShowHousehold bool   `gorm:"default:false" json:"directory_show_household"`
	ProfileVisibility      string `gorm:"size:20;default:'members'" json:"profile_visibility"`

	// Financial preferences
	AutoPayEnabled          bool   `gorm:"default:false" json:"auto_pay_enabled"`
	PreferredPaymentMethod  string `gorm:"size:20;default:'payment_wallet'" json:"preferred_payment_method"`
	BillingAddressDifferent bool   `gorm:"default:false" json:"billing_address_different"`
	BillingAddress          string `gorm:"type:text" json:"billing_address"`
	WalletProvider          string `gorm:"size:10;default:'gcash'" json:"wallet_provider"`
	WalletAccountName       string `gorm:"size:255" json:"wallet_account_name"`
	WalletAccountNumber     string `gorm:"size:20" json:"wallet_account_number"`

	// Notifications and system preferences
	EmailNotifications      bool   `gorm:"default:true" json:"email_notifications"`
	SMSNotifications        bool   `gorm:"default:false" json:"sms_notifications"`
	PushNotifications       bool   `gorm:"default:true" json:"push_notifications"`
	NotificationPreferences JSON   `gorm:"type:text" json:"notification_preferences"`
	ThemePreference         string `gorm:"size:10;default:'light'" json:"theme_preference"`

	// Security
	Password         string     `gorm:"not null" json:"-"`
	TOTPSecret       *string    `gorm:"size:64" json:"-"`
	TwoFactorEnabled bool       `gorm:"default:false" json:"two_factor_enabled"`
	BackupCodes      StringList `gorm:"type:text" json:"-"`
	TokenVersion     int        `gorm:"default:1" json:"-"`

	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	LastProfileUpdate time.Time `json:"last_profile_update"`
}

// BeforeCreate assigns an id and defaults that gorm tags cannot express.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	if u.LastProfileUpdate.IsZero() {
		u.LastProfileUpdate = time.Now()
	}
	return nil
}

// HasResidence reports whether a residence locator is on file.
func (u *User) HasResidence() bool {
	return u.UnitNumber != "" || (u.Block != "" && u.Lot != "")
}

// CompletionPercentage estimates how much of the profile has been filled in.
func (u *User) CompletionPercentage() int {
	checks := []bool{
		u.FullName != "",
		u.Email != "",
		u.Phone != "",
		u.HasResidence(),
		u.MoveInDate != nil,
		u.EmergencyContact != "",
		u.EmergencyPhone != "",
		u.PreferredContactMethod != "",
		u.PropertyType != "",
		u.ParkingSpaces > 0,
		len(u.NotificationPreferences) > 0,
		u.ThemePreference != "",
	}
	done := 0
	for _, ok := range checks {
		if ok {
			done++
		}
	}
	return done * 100 / len(checks)
}

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}
