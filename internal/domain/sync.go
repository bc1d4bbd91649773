package domain

import "time"

// ResolutionReason — причина, по которой движок сверки выбрал итоговое значение.
type ResolutionReason string

const (
	ReasonBranchMissing  ResolutionReason = "branch_missing"  // филиал не знал товара, принял значение центра
	ReasonCentralMissing ResolutionReason = "central_missing" // центр не знал товара, принял значение филиала
	ReasonLWWBranch      ResolutionReason = "lww_branch"      // победила запись филиала (включая равенство меток времени)
	ReasonLWWCentral     ResolutionReason = "lww_central"     // победила запись центра
)

// SyncChange — одно разрешённое расхождение в рамках прохода сверки.
// Nil в предыдущем значении означает отсутствие записи в соответствующем леджере.
type SyncChange struct {
	ProductID      int64
	PrevBranchQty  *int64
	PrevCentralQty *int64
	ResolvedQty    int64
	Reason         ResolutionReason
}

// SyncRecord — неизменяемый результат одного прохода сверки филиала с центром.
// История записей append-only; совпавшие товары в запись не попадают.
type SyncRecord struct {
	ID        int64
	BranchID  string
	Timestamp time.Time
	Changes   []SyncChange
	Orphaned  []int64 // товары из снапшотов, отсутствующие в каталоге; не мутируются
}

// Empty сообщает, что проход не произвёл ни одного изменения.
func (r *SyncRecord) Empty() bool {
	return len(r.Changes) == 0 && len(r.Orphaned) == 0
}
