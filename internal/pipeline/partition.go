package pipeline

import "github.com/kioskworks/sitescout/internal/model"

// Partition splits businesses by contact availability. Exhaustive and
// disjoint: every record lands in exactly one output, in input order.
func Partition(records []model.BusinessRecord) (withContact, withoutContact []model.BusinessRecord) {
	for _, rec := range records {
		if rec.HasContact() {
			withContact = append(withContact, rec)
		} else {
			withoutContact = append(withoutContact, rec)
		}
	}
	return withContact, withoutContact
}
