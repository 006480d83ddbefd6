package annot

import (
	"fmt"
	"sort"
)

// Validate cross-checks the three independently authored sections. It is a
// pure function of the equation term order, the set of terms referenced in
// the description, and the definition entries.
//
// Errors: a description reference to a term the equation never marks, and
// an equation term with no definition. Warnings: an equation term never
// mentioned in the description, and a definition that matches no equation
// term. Membership is position-independent: a description reference counts
// as present no matter where its equation mark occurs.
func Validate(termOrder []string, descTerms map[string]bool, defs []Definition) (errors, warnings []string) {
	inEquation := make(map[string]bool, len(termOrder))
	for _, t := range termOrder {
		inEquation[t] = true
	}
	defined := make(map[string]bool, len(defs))
	for _, d := range defs {
		defined[d.Term] = true
	}

	// Sorted so diagnostic order is stable across runs.
	descList := make([]string, 0, len(descTerms))
	for term := range descTerms {
		descList = append(descList, term)
	}
	sort.Strings(descList)

	for _, term := range descList {
		if !inEquation[term] {
			errors = append(errors,
				fmt.Sprintf("description references term %q but the equation has no \\mark[%s]{...} annotation", term, term))
		}
	}

	for _, term := range termOrder {
		if !defined[term] {
			errors = append(errors,
				fmt.Sprintf("equation term %q has no definition (expected a %q heading)", term, "## ."+term))
		}
		if !descTerms[term] {
			warnings = append(warnings,
				fmt.Sprintf("equation term %q is never referenced in the description (expected a [...]{.%s} reference)", term, term))
		}
	}

	for _, d := range defs {
		if !inEquation[d.Term] {
			warnings = append(warnings,
				fmt.Sprintf("definition %q does not match any equation term (no \\mark[%s]{...} in the equation block)", d.Term, d.Term))
		}
	}

	return errors, warnings
}
