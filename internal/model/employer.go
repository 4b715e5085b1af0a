// Package model holds the domain types shared by the repository, service
// and handler layers.
package model

// EmployerDetailTable is the table catalog key of the employer detail
// table; the configured database maps it to a physical name.
const EmployerDetailTable = "cv_employer_detail"

// Employer is one employer detail row. Nullable columns are pointers and
// serialize as JSON null.
type Employer struct {
	Name     *string `json:"employer_name"`
	URL      *string `json:"employer_url"`
	Location *string `json:"location"`
}

// EmployerColumns lists the employer detail columns in Employer field
// order.
var EmployerColumns = []string{"employer_name", "employer_url", "location"}
