package domain

type Traveller struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	PassportNumber  string `json:"passportNumber,omitempty"`
	PassportExpiry  string `json:"passportExpiry,omitempty"`
	DOB             string `json:"dob,omitempty"`
	Nationality     string `json:"nationality"`
	CustomerID      string `json:"customerId,omitempty"`
	ETicketNumber   string `json:"eticketNumber,omitempty"`
	SaveToDirectory bool   `json:"saveToDirectory"`
}

// CustomerCandidate is one result of a customer or traveller lookup.
type CustomerCandidate struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PassportNumber string `json:"passportNumber,omitempty"`
	PassportExpiry string `json:"passportExpiry,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// DirectoryOption feeds the agency and handling-user dropdowns.
type DirectoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
