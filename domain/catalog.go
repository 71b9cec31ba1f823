package domain

// Categories in display order.
var Categories = []string{
	"Gastrointestinal",
	"Respiratory",
	"Cardiovascular",
	"Vitamins",
	"Painkillers",
	"Antibiotics",
}

// Suppliers accepted on inventory records.
var Suppliers = []string{
	"Pharma Inc.",
	"MediSupply",
	"HealthLife",
	"Global Meds",
	"Local Distributors",
}

// Payment methods accepted on bills.
const (
	PaymentCash   = "Cash"
	PaymentDebit  = "Debit"
	PaymentCredit = "Credit"
)

// DateLayout is the calendar date format used for expiry and bill dates.
const DateLayout = "2006-01-02"
