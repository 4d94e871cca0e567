// Package accounting holds the fixed chart of accounts. The table is closed
// on purpose: postings must never reference an account the reporting side
// cannot classify, so adding an account is a code change, not data entry.
package accounting

import "scolaris/internal/model"

// AccountType classifies accounts for statement roll-ups.
type AccountType string

const (
	TypeAsset   AccountType = "asset"
	TypeRevenue AccountType = "revenue"
	TypeCharge  AccountType = "charge"
)

// Side is the normal balance side of an account.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Well-known account codes (OHADA-flavoured numbering).
const (
	CodeCash           = "5111" // Caisse
	CodeReceivable     = "4111" // Clients
	CodeTuitionRevenue = "7011" // Produits de scolarité

	CodeSalaries    = "6411" // Salaires
	CodeUtilities   = "6061" // Eau et électricité
	CodeSupplies    = "6064" // Fournitures
	CodeMaintenance = "6155" // Entretien et réparations
	CodeOther       = "6288" // Autres charges
)

// Account is one row of the chart of accounts.
type Account struct {
	Code       string
	Name       string
	Type       AccountType
	NormalSide Side
}

var chart = map[string]Account{
	CodeCash:           {Code: CodeCash, Name: "Caisse", Type: TypeAsset, NormalSide: SideDebit},
	CodeReceivable:     {Code: CodeReceivable, Name: "Clients", Type: TypeAsset, NormalSide: SideDebit},
	CodeTuitionRevenue: {Code: CodeTuitionRevenue, Name: "Produits de scolarité", Type: TypeRevenue, NormalSide: SideCredit},
	CodeSalaries:       {Code: CodeSalaries, Name: "Salaires", Type: TypeCharge, NormalSide: SideDebit},
	CodeUtilities:      {Code: CodeUtilities, Name: "Eau et électricité", Type: TypeCharge, NormalSide: SideDebit},
	CodeSupplies:       {Code: CodeSupplies, Name: "Fournitures", Type: TypeCharge, NormalSide: SideDebit},
	CodeMaintenance:    {Code: CodeMaintenance, Name: "Entretien et réparations", Type: TypeCharge, NormalSide: SideDebit},
	CodeOther:          {Code: CodeOther, Name: "Autres charges", Type: TypeCharge, NormalSide: SideDebit},
}

var chargeByCategory = map[string]string{
	model.CategorySalaries:    CodeSalaries,
	model.CategoryUtilities:   CodeUtilities,
	model.CategorySupplies:    CodeSupplies,
	model.CategoryMaintenance: CodeMaintenance,
	model.CategoryOther:       CodeOther,
}

// Lookup returns the account for a code.
func Lookup(code string) (Account, error) {
	acct, ok := chart[code]
	if !ok {
		return Account{}, &model.UnknownAccountError{Code: code}
	}
	return acct, nil
}

// NameOf returns the human name of an account code.
func NameOf(code string) (string, error) {
	acct, err := Lookup(code)
	if err != nil {
		return "", err
	}
	return acct.Name, nil
}

// Exists reports whether a code is part of the chart.
func Exists(code string) bool {
	_, ok := chart[code]
	return ok
}

// ChargeAccountFor maps an expense category to its charge account code.
func ChargeAccountFor(category string) (string, error) {
	code, ok := chargeByCategory[category]
	if !ok {
		return "", &model.UnknownAccountError{Code: category}
	}
	return code, nil
}

// All returns every account in the chart, in stable code order.
func All() []Account {
	codes := []string{CodeReceivable, CodeCash, CodeUtilities, CodeSupplies, CodeMaintenance, CodeOther, CodeSalaries, CodeTuitionRevenue}
	accts := make([]Account, 0, len(codes))
	for _, c := range codes {
		accts = append(accts, chart[c])
	}
	return accts
}
