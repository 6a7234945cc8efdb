package core

// Vocabulary holds the fixed, type-scoped category sets used for
// validation and for UI selection. It is injected rather than read from a
// package global so tests can substitute alternate sets.
type Vocabulary struct {
	Expense []string
	Income  []string
}

// DefaultVocabulary returns the built-in category sets.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Expense: []string{
			"Food",
			"Transportation",
			"Housing",
			"Entertainment",
			"Utilities",
			"Shopping",
			"Healthcare",
			"Other",
		},
		Income: []string{
			"Salary",
			"Freelance",
			"Investments",
			"Gift",
			"Other",
		},
	}
}

// Allows reports whether category belongs to the set for the given type.
func (v Vocabulary) Allows(t TransactionType, category string) bool {
	var set []string
	switch t {
	case Expense:
		set = v.Expense
	case Income:
		set = v.Income
	default:
		return false
	}
	for _, c := range set {
		if c == category {
			return true
		}
	}
	return false
}

// Categories returns the category set for the given transaction type.
func (v Vocabulary) Categories(t TransactionType) []string {
	switch t {
	case Expense:
		return v.Expense
	case Income:
		return v.Income
	}
	return nil
}
