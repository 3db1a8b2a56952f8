package outstandingfines

import (
	"github.com/lendkit/circulation-go/core"
)

// ProjectOutstandingFines implements the query logic over the patron's unpaid
// fines. Pure function with no side effects.
func ProjectOutstandingFines(fines []core.Fine, query Query) OutstandingFines {
	infos := make([]FineInfo, 0, len(fines))
	var total core.Cents

	for _, fine := range fines {
		infos = append(infos, FineInfo{
			FineID:         fine.ID,
			BorrowRecordID: fine.BorrowRecordID,
			Amount:         fine.Amount,
			Reason:         fine.Reason,
			IssuedAt:       fine.IssuedAt,
		})
		total += fine.Amount
	}

	return OutstandingFines{
		PatronID:    query.PatronID,
		Fines:       infos,
		TotalAmount: total,
		Count:       len(infos),
	}
}
