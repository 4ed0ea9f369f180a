package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength         = 255
	MaxRelationshipLength = 50
	MaxMailboxLength      = 10
	MaxTextLength         = 2000
	MaxWalletNumberLength = 20
	MaxPetNameLength      = 100
	MaxShortTextLength    = 50

	MinVehicleYear = 1900

	DateLayout = "2006-01-02"
)

// Closed value sets for profile choice fields.
var (
	ContactMethods    = []string{"email", "phone", "sms"}
	ContactTimes      = []string{"morning", "afternoon", "evening", "anytime"}
	Languages         = []string{"en", "es", "fil", "zh"}
	PropertyTypes     = []string{"townhouse", "single_attached"}
	ProfileVisibility = []string{"public", "members", "private"}
	Themes            = []string{"light", "dark", "auto"}
	PaymentMethods    = []string{"payment_wallet", "qr_code"}
	WalletProviders   = []string{"gcash", "maya"}

	Relationships = []string{"spouse", "child", "parent", "sibling", "relative", "roommate", "tenant", "other"}
	PetTypes      = []string{"dog", "cat", "bird", "fish", "reptile", "small_mammal", "other"}
	VehicleTypes  = []string{"car", "truck", "suv", "van", "motorcycle", "rv", "trailer", "other"}
)
