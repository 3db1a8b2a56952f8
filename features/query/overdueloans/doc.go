// Package overdueloans implements the Overdue Loans query use case, used by
// desk staff to chase late returns. The accrued fine shown per loan is a
// projection of what the fine would be if the copy came back now in normal
// condition; nothing is persisted until the actual return.
package overdueloans
