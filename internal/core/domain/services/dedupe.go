package services

import (
	"fmt"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
)

// dedupe keeps the first record per id, in list order, and reports every later
// duplicate as a data-integrity anomaly.
func dedupe[T any](items []T, idOf func(T) kernel.ID, subject string) ([]T, []error) {
	seen := make(map[kernel.ID]struct{}, len(items))
	out := make([]T, 0, len(items))
	var anomalies []error

	for _, item := range items {
		id := idOf(item)
		if _, dup := seen[id]; dup {
			anomalies = append(anomalies, errs.NewDataIntegrityError(
				subject,
				fmt.Sprintf("id %s listed more than once, keeping the first", id),
			))
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}

	return out, anomalies
}

func indexByID[T any](items []T, idOf func(T) kernel.ID) map[kernel.ID]T {
	m := make(map[kernel.ID]T, len(items))
	for _, item := range items {
		if _, ok := m[idOf(item)]; !ok {
			m[idOf(item)] = item
		}
	}
	return m
}
