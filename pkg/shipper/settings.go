package shipper

// Settings identifies a carrier account. Carrier packages embed BaseSettings
// and add their own credential fields, which the core never reads.
type Settings interface {
	// ID is the account identifier, unique among configured accounts.
	ID() string
	// CarrierID is the carrier identifier tag (e.g. "purolator").
	CarrierID() string
	// CarrierName is the display name.
	CarrierName() string
	// IsTest reports whether the account targets the carrier's sandbox.
	IsTest() bool
}

// BaseSettings carries the fields every carrier account has.
type BaseSettings struct {
	AccountID string `yaml:"id" json:"id"`
	Carrier   string `yaml:"carrier" json:"carrier"`
	Name      string `yaml:"name" json:"name"`
	Test      bool   `yaml:"test" json:"test"`
}

// ID returns the account identifier, falling back to the carrier tag.
func (s BaseSettings) ID() string {
	if s.AccountID != "" {
		return s.AccountID
	}
	return s.Carrier
}

// CarrierID returns the carrier identifier tag.
func (s BaseSettings) CarrierID() string {
	return s.Carrier
}

// CarrierName returns the display name, falling back to the carrier tag.
func (s BaseSettings) CarrierName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Carrier
}

// IsTest reports whether the sandbox is targeted.
func (s BaseSettings) IsTest() bool {
	return s.Test
}

// Provider describes a carrier integration: how to allocate its Settings and
// how to build a Mapper bound to them.
type Provider struct {
	ID          string
	Name        string
	NewSettings func() Settings
	NewMapper   func(Settings) (Mapper, error)
}
