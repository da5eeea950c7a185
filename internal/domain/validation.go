package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge        = errors.New("amount exceeds maximum allowed")
	ErrDocumentNumberTooLong = errors.New("document number too long")
	ErrDescriptionTooLong    = errors.New("description too long")
)

// Validation constants
const (
	MaxDocumentNumberLength = 50
	MaxDescriptionLength    = 255
	MaxExternalCodeLength   = 50
	MaxLineAmount           = "9999999999999999.99" // numeric(18,2)
	AmountPlaces            = 2
)

var maxLineAmount = decimal.RequireFromString(MaxLineAmount)

// ValidateLineAmount validates the amount of an entry line.
func ValidateLineAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxLineAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxLineAmount)
	}

	return nil
}

// ValidateSide validates a D/C marker.
func ValidateSide(side Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidSide, side)
	}
	return nil
}

// ValidateHeader validates the free-text and enum fields of an entry header.
func ValidateHeader(e *JournalEntry) error {
	valid := false
	for _, k := range EntryKinds {
		if e.Kind == k {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q", ErrInvalidKind, e.Kind)
	}

	if e.EntryDate.IsZero() || e.CompetenceDate.IsZero() {
		return ErrInvalidDate
	}

	if len(strings.TrimSpace(e.DocumentNumber)) > MaxDocumentNumberLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrDocumentNumberTooLong, MaxDocumentNumberLength)
	}

	if len(e.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	return nil
}

// ValidateAllocations checks that allocations of one kind cover the line
// amount exactly (to the cent) and do not repeat a target. No allocations is
// valid here; whether they are required is decided by ValidateEntry.
func ValidateAllocations(line *EntryLine, allocs []*Allocation) error {
	if len(allocs) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(allocs))
	for _, a := range allocs {
		if seen[a.TargetID] {
			return fmt.Errorf("%w: %s", ErrDuplicateAllocation, a.TargetID)
		}
		seen[a.TargetID] = true

		if a.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}
	}

	total := SumAllocations(allocs).Round(AmountPlaces)
	if !total.Equal(line.Amount.Round(AmountPlaces)) {
		return fmt.Errorf("%w: line %s allocates %s of %s (%s)",
			ErrAllocationMismatch, line.ID, total.StringFixed(AmountPlaces),
			line.Amount.StringFixed(AmountPlaces), allocs[0].Kind)
	}

	return nil
}

// ValidateEntry enforces the save-time rules: debits equal credits to the
// cent, cost-center allocation present for result accounts, and allocation
// totals matching each line. An entry without lines balances.
func ValidateEntry(lines []*EntryLine, costCenters, projects map[string][]*Allocation) error {
	totals := SumLines(lines)
	if !totals.Debit.Round(AmountPlaces).Equal(totals.Credit.Round(AmountPlaces)) {
		return fmt.Errorf("%w: debit %s, credit %s", ErrUnbalancedEntry,
			totals.Debit.StringFixed(AmountPlaces), totals.Credit.StringFixed(AmountPlaces))
	}

	for _, l := range lines {
		if !l.Active {
			continue
		}

		cc := costCenters[l.ID]
		if l.AccountClass.RequiresCostCenter() && len(cc) == 0 {
			return fmt.Errorf("%w: line %s (account %s)", ErrCostCenterAllocationRequired, l.ID, l.AccountCode)
		}

		if err := ValidateAllocations(l, cc); err != nil {
			return err
		}

		if err := ValidateAllocations(l, projects[l.ID]); err != nil {
			return err
		}
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 10

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
