package pagewindow

// Operator is a comparison operator used in keyset conditions.
type Operator string

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"

	// operatorEq is private: it only appears in the equality prefix of an
	// expanded keyset condition.
	operatorEq Operator = "="
)

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}
