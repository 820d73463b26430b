package types

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	Access  string `json:"-"`
	Refresh string `json:"-"`
	User    User   `json:"user"`
}

type Address struct {
	ID           string `json:"id,omitempty"`
	FullName     string `json:"full_name" validate:"required,max=120"`
	Phone        string `json:"phone" validate:"required,min=7,max=20"`
	AddressLine1 string `json:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	Pincode      string `json:"pincode" validate:"required,min=4,max=10"`
	Country      string `json:"country,omitempty"`
	AddressType  string `json:"address_type,omitempty" validate:"omitempty,oneof=home work other"`
	IsDefault    bool   `json:"is_default"`
}

type Consultation struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Topic         string `json:"topic"`
	Message       string `json:"message,omitempty"`
	Status        string `json:"status,omitempty"`
}
