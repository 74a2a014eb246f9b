package allocation

import "fmt"

// ValidationError rejects operator input before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DivisionMismatchError is returned when the division quantities of a day do
// not add up to the declared day total.
type DivisionMismatchError struct {
	Declared int64
	Sum      int64
}

func (e *DivisionMismatchError) Error() string {
	return fmt.Sprintf("soma das divisões (%d) não confere com o total do dia (%d)", e.Sum, e.Declared)
}

// ProductionClosedError is returned by every mutation on a closed production.
type ProductionClosedError struct {
	ProductionID int64
}

func (e *ProductionClosedError) Error() string {
	return fmt.Sprintf("produção %d está fechada e não aceita alterações", e.ProductionID)
}
