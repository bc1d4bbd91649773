package domain

import (
	"sort"

	"github.com/ecomarket-tech/inventory-backend/pkg/e"
)

// Registry — явный реестр локаций: центральный леджер и конечный именованный
// набор филиалов. Движок сверки получает леджеры отсюда, а не из глобального состояния.
type Registry struct {
	central  *Ledger
	branches map[string]*Ledger
}

func NewRegistry(centralID string, branchIDs []string) *Registry {
	branches := make(map[string]*Ledger, len(branchIDs))
	for _, id := range branchIDs {
		branches[id] = NewLedger(id)
	}

	return &Registry{
		central:  NewLedger(centralID),
		branches: branches,
	}
}

// Central возвращает леджер центральной локации.
func (r *Registry) Central() *Ledger {
	return r.central
}

// Branch возвращает леджер филиала или e.ErrLocationNotFound.
func (r *Registry) Branch(id string) (*Ledger, error) {
	ledger, ok := r.branches[id]
	if !ok {
		return nil, e.ErrLocationNotFound
	}

	return ledger, nil
}

// Ledger возвращает леджер любой локации, включая центральную.
func (r *Registry) Ledger(id string) (*Ledger, error) {
	if id == r.central.LocationID() {
		return r.central, nil
	}

	return r.Branch(id)
}

// BranchIDs возвращает отсортированный список идентификаторов филиалов.
func (r *Registry) BranchIDs() []string {
	ids := make([]string, 0, len(r.branches))
	for id := range r.branches {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}
