package profile

import (
	"context"
	"time"

	"hoaportal/internal/audit"
	apperrors "hoaportal/internal/errors"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/validation"

	"github.com/google/uuid"
)

// Each section input owns a disjoint subset of user fields, except that
// language and timezone are shared by the basic and system sections.
// A nil pointer means the field was not submitted.

type BasicInput struct {
	FullName               *string `json:"full_name"`
	Phone                  *string `json:"phone"`
	PreferredContactMethod *string `json:"preferred_contact_method"`
	BestContactTime        *string `json:"best_contact_time"`
	LanguagePreference     *string `json:"language_preference"`
	TimezoneSetting        *string `json:"timezone_setting"`
}

func (s *Service) UpdateBasic(ctx context.Context, userID uuid.UUID, in BasicInput, rc audit.RequestContext) (*models.User, error) {
	in.FullName, in.Phone = trimmed(in.FullName), trimmed(in.Phone)

	v := validation.New()
	if in.FullName != nil {
		v.Required("full_name", *in.FullName)
		v.MaxLength("full_name", *in.FullName, validation.MaxNameLength)
	}
	v.Phone("phone", deref(in.Phone))
	v.OneOf("preferred_contact_method", deref(in.PreferredContactMethod), validation.ContactMethods)
	v.OneOf("best_contact_time", deref(in.BestContactTime), validation.ContactTimes)
	v.OneOf("language_preference", deref(in.LanguagePreference), validation.Languages)
	v.Timezone("timezone_setting", deref(in.TimezoneSetting))
	if err := v.Err(); err != nil {
		return nil, err
	}

	var cs changeSet
	field(&cs, "full_name", in.FullName, func(u *models.User) *string { return &u.FullName })
	field(&cs, "phone", in.Phone, func(u *models.User) *string { return &u.Phone })
	field(&cs, "preferred_contact_method", in.PreferredContactMethod, func(u *models.User) *string { return &u.PreferredContactMethod })
	field(&cs, "best_contact_time", in.BestContactTime, func(u *models.User) *string { return &u.BestContactTime })
	field(&cs, "language_preference", in.LanguagePreference, func(u *models.User) *string { return &u.LanguagePreference })
	field(&cs, "timezone_setting", in.TimezoneSetting, func(u *models.User) *string { return &u.TimezoneSetting })
	return s.apply(ctx, userID, cs, nil, rc)
}

type ResidenceInput struct {
	Block         *string `json:"block"`
	Lot           *string `json:"lot"`
	UnitNumber    *string `json:"unit_number"`
	MoveInDate    *string `json:"move_in_date"`
	PropertyType  *string `json:"property_type"`
	ParkingSpaces *int    `json:"parking_spaces"`
	MailboxNumber *string `json:"mailbox_number"`
}

func (s *Service) UpdateResidence(ctx context.Context, userID uuid.UUID, in ResidenceInput, rc audit.RequestContext) (*models.User, error) {
	in.Block, in.Lot, in.UnitNumber = trimmed(in.Block), trimmed(in.Lot), trimmed(in.UnitNumber)
	in.MoveInDate, in.MailboxNumber = trimmed(in.MoveInDate), trimmed(in.MailboxNumber)

	v := validation.New()
	v.BlockLot("block", deref(in.Block))
	v.BlockLot("lot", deref(in.Lot))
	v.UnitNumber("unit_number", deref(in.UnitNumber))
	v.Date("move_in_date", deref(in.MoveInDate))
	v.OneOf("property_type", deref(in.PropertyType), validation.PropertyTypes)
	if in.ParkingSpaces != nil {
		v.NonNegative("parking_spaces", *in.ParkingSpaces)
	}
	v.MaxLength("mailbox_number", deref(in.MailboxNumber), validation.MaxMailboxLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var moveIn *time.Time
	if in.MoveInDate != nil && *in.MoveInDate != "" {
		d, _ := time.Parse(validation.DateLayout, *in.MoveInDate)
		moveIn = &d
	}
	var moveInInput **time.Time
	if in.MoveInDate != nil {
		moveInInput = &moveIn
	}

	var cs changeSet
	field(&cs, "block", in.Block, func(u *models.User) *string { return &u.Block })
	field(&cs, "lot", in.Lot, func(u *models.User) *string { return &u.Lot })
	field(&cs, "unit_number", in.UnitNumber, func(u *models.User) *string { return &u.UnitNumber })
	field(&cs, "move_in_date", moveInInput, func(u *models.User) **time.Time { return &u.MoveInDate })
	field(&cs, "property_type", in.PropertyType, func(u *models.User) *string { return &u.PropertyType })
	field(&cs, "parking_spaces", in.ParkingSpaces, func(u *models.User) *int { return &u.ParkingSpaces })
	field(&cs, "mailbox_number", in.MailboxNumber, func(u *models.User) *string { return &u.MailboxNumber })

	return s.apply(ctx, userID, cs, func(ctx context.Context, tx repositories.Store, u *models.User) error {
		return checkResidence(ctx, tx, u, in)
	}, rc)
}

// checkResidence rejects a locator another user already holds. The partial
// unique indexes enforce the same rule when two requests race past this check.
func checkResidence(ctx context.Context, tx repositories.Store, u *models.User, in ResidenceInput) error {
	block, lot, unit := u.Block, u.Lot, u.UnitNumber
	if in.Block != nil {
		block = *in.Block
	}
	if in.Lot != nil {
		lot = *in.Lot
	}
	if in.UnitNumber != nil {
		unit = *in.UnitNumber
	}

	if (block == "") != (lot == "") {
		return apperrors.FieldError("lot", "Block and lot must be provided together")
	}
	if block != "" {
		taken, err := tx.Users().BlockLotTaken(ctx, block, lot, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict(ErrBlockLotTaken)
		}
	}
	if unit != "" {
		taken, err := tx.Users().UnitNumberTaken(ctx, unit, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict(ErrUnitTaken)
		}
	}
	return nil
}

type EmergencyInput struct {
	EmergencyContact               *string `json:"emergency_contact"`
	EmergencyPhone                 *string `json:"emergency_phone"`
	EmergencyRelationship          *string `json:"emergency_relationship"`
	SecondaryEmergencyContact      *string `json:"secondary_emergency_contact"`
	SecondaryEmergencyPhone        *string `json:"secondary_emergency_phone"`
	SecondaryEmergencyRelationship *string `json:"secondary_emergency_relationship"`
	MedicalConditions              *string `json:"medical_conditions"`
	SpecialNeeds                   *string `json:"special_needs"`
}

func (s *Service) UpdateEmergency(ctx context.Context, userID uuid.UUID, in EmergencyInput, rc audit.RequestContext) (*models.User, error) {
	in.EmergencyPhone, in.SecondaryEmergencyPhone = trimmed(in.EmergencyPhone), trimmed(in.SecondaryEmergencyPhone)

	v := validation.New()
	v.MaxLength("emergency_contact", deref(in.EmergencyContact), validation.MaxNameLength)
	v.Phone("emergency_phone", deref(in.EmergencyPhone))
	v.MaxLength("emergency_relationship", deref(in.EmergencyRelationship), validation.MaxRelationshipLength)
	v.MaxLength("secondary_emergency_contact", deref(in.SecondaryEmergencyContact), validation.MaxNameLength)
	v.Phone("secondary_emergency_phone", deref(in.SecondaryEmergencyPhone))
	v.MaxLength("secondary_emergency_relationship", deref(in.SecondaryEmergencyRelationship), validation.MaxRelationshipLength)
	v.MaxLength("medical_conditions", deref(in.MedicalConditions), validation.MaxTextLength)
	v.MaxLength("special_needs", deref(in.SpecialNeeds), validation.MaxTextLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var cs changeSet
	field(&cs, "emergency_contact", in.EmergencyContact, func(u *models.User) *string { return &u.EmergencyContact })
	field(&cs, "emergency_phone", in.EmergencyPhone, func(u *models.User) *string { return &u.EmergencyPhone })
	field(&cs, "emergency_relationship", in.EmergencyRelationship, func(u *models.User) *string { return &u.EmergencyRelationship })
	field(&cs, "secondary_emergency_contact", in.SecondaryEmergencyContact, func(u *models.User) *string { return &u.SecondaryEmergencyContact })
	field(&cs, "secondary_emergency_phone", in.SecondaryEmergencyPhone, func(u *models.User) *string { return &u.SecondaryEmergencyPhone })
	field(&cs, "secondary_emergency_relationship", in.SecondaryEmergencyRelationship, func(u *models.User) *string { return &u.SecondaryEmergencyRelationship })
	field(&cs, "medical_conditions", in.MedicalConditions, func(u *models.User) *string { return &u.MedicalConditions })
	field(&cs, "special_needs", in.SpecialNeeds, func(u *models.User) *string { return &u.SpecialNeeds })
	return s.apply(ctx, userID, cs, nil, rc)
}

type PrivacyInput struct {
	IsDirectoryVisible     *bool   `json:"is_directory_visible"`
	DirectoryShowName      *bool   `json:"directory_show_name"`
	DirectoryShowUnit      *bool   `json:"directory_show_unit"`
	DirectoryShowPhone     *bool   `json:"directory_show_phone"`
	DirectoryShowEmail     *bool   `json:"directory_show_email"`
	DirectoryShowHousehold *bool   `json:"directory_show_household"`
	ProfileVisibility      *string `json:"profile_visibility"`
}

func (s *Service) UpdatePrivacy(ctx context.Context, userID uuid.UUID, in PrivacyInput, rc audit.RequestContext) (*models.User, error) {
	v := validation.New()
	v.OneOf("profile_visibility", deref(in.ProfileVisibility), validation.ProfileVisibility)
	if in.ProfileVisibility != nil {
		v.Required("profile_visibility", *in.ProfileVisibility)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var cs changeSet
	field(&cs, "is_directory_visible", in.IsDirectoryVisible, func(u *models.User) *bool { return &u.IsDirectoryVisible })
	field(&cs, "directory_show_name", in.DirectoryShowName, func(u *models.User) *bool { return &u.DirectoryShowName })
	field(&cs, "directory_show_unit", in.DirectoryShowUnit, func(u *models.User) *bool { return &u.DirectoryShowUnit })
	field(&cs, "directory_show_phone", in.DirectoryShowPhone, func(u *models.User) *bool { return &u.DirectoryShowPhone })
	field(&cs, "directory_show_email", in.DirectoryShowEmail, func(u *models.User) *bool { return &u.DirectoryShowEmail })
	field(&cs, "directory_show_household", in.DirectoryShowHousehold, func(u *models.User) *bool { return &u.DirectoryShowHousehold })
	field(&cs, "profile_visibility", in.ProfileVisibility, func(u *models.User) *string { return &u.ProfileVisibility })
	return s.apply(ctx, userID, cs, nil, rc)
}

type NotificationsInput struct {
	EmailNotifications      *bool        `json:"email_notifications"`
	SMSNotifications        *bool        `json:"sms_notifications"`
	PushNotifications       *bool        `json:"push_notifications"`
	NotificationPreferences *models.JSON `json:"notification_preferences"`
}

func (s *Service) UpdateNotifications(ctx context.Context, userID uuid.UUID, in NotificationsInput, rc audit.RequestContext) (*models.User, error) {
	var cs changeSet
	field(&cs, "email_notifications", in.EmailNotifications, func(u *models.User) *bool { return &u.EmailNotifications })
	field(&cs, "sms_notifications", in.SMSNotifications, func(u *models.User) *bool { return &u.SMSNotifications })
	field(&cs, "push_notifications", in.PushNotifications, func(u *models.User) *bool { return &u.PushNotifications })
	field(&cs, "notification_preferences", in.NotificationPreferences, func(u *models.User) *models.JSON { return &u.NotificationPreferences })
	return s.apply(ctx, userID, cs, nil, rc)
}

type SystemInput struct {
	ThemePreference    *string `json:"theme_preference"`
	LanguagePreference *string `json:"language_preference"`
	TimezoneSetting    *string `json:"timezone_setting"`
}

func (s *Service) UpdateSystem(ctx context.Context, userID uuid.UUID, in SystemInput, rc audit.RequestContext) (*models.User, error) {
	v := validation.New()
	v.OneOf("theme_preference", deref(in.ThemePreference), validation.Themes)
	v.OneOf("language_preference", deref(in.LanguagePreference), validation.Languages)
	v.Timezone("timezone_setting", deref(in.TimezoneSetting))
	if err := v.Err(); err != nil {
		return nil, err
	}

	var cs changeSet
	field(&cs, "theme_preference", in.ThemePreference, func(u *models.User) *string { return &u.ThemePreference })
	field(&cs, "language_preference", in.LanguagePreference, func(u *models.User) *string { return &u.LanguagePreference })
	field(&cs, "timezone_setting", in.TimezoneSetting, func(u *models.User) *string { return &u.TimezoneSetting })
	return s.apply(ctx, userID, cs, nil, rc)
}

type FinancialInput struct {
	AutoPayEnabled          *bool   `json:"auto_pay_enabled"`
	PreferredPaymentMethod  *string `json:"preferred_payment_method"`
	BillingAddressDifferent *bool   `json:"billing_address_different"`
	BillingAddress          *string `json:"billing_address"`
	WalletProvider          *string `json:"wallet_provider"`
	WalletAccountName       *string `json:"wallet_account_name"`
	WalletAccountNumber     *string `json:"wallet_account_number"`
}

func (s *Service) UpdateFinancial(ctx context.Context, userID uuid.UUID, in FinancialInput, rc audit.RequestContext) (*models.User, error) {
	in.WalletAccountName, in.WalletAccountNumber = trimmed(in.WalletAccountName), trimmed(in.WalletAccountNumber)

	v := validation.New()
	if in.PreferredPaymentMethod != nil {
		v.Required("preferred_payment_method", *in.PreferredPaymentMethod)
	}
	v.OneOf("preferred_payment_method", deref(in.PreferredPaymentMethod), validation.PaymentMethods)
	if in.WalletProvider != nil {
		v.Required("wallet_provider", *in.WalletProvider)
	}
	v.OneOf("wallet_provider", deref(in.WalletProvider), validation.WalletProviders)
	v.MaxLength("billing_address", deref(in.BillingAddress), validation.MaxTextLength)
	v.MaxLength("wallet_account_name", deref(in.WalletAccountName), validation.MaxNameLength)
	v.MaxLength("wallet_account_number", deref(in.WalletAccountNumber), validation.MaxWalletNumberLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var cs changeSet
	field(&cs, "auto_pay_enabled", in.AutoPayEnabled, func(u *models.User) *bool { return &u.AutoPayEnabled })
	field(&cs, "preferred_payment_method", in.PreferredPaymentMethod, func(u *models.User) *string { return &u.PreferredPaymentMethod })
	field(&cs, "billing_address_different", in.BillingAddressDifferent, func(u *models.User) *bool { return &u.BillingAddressDifferent })
	field(&cs, "billing_address", in.BillingAddress, func(u *models.User) *string { return &u.BillingAddress })
	field(&cs, "wallet_provider", in.WalletProvider, func(u *models.User) *string { return &u.WalletProvider })
	field(&cs, "wallet_account_name", in.WalletAccountName, func(u *models.User) *string { return &u.WalletAccountName })
	field(&cs, "wallet_account_number", in.WalletAccountNumber, func(u *models.User) *string { return &u.WalletAccountNumber })
	return s.apply(ctx, userID, cs, nil, rc)
}
