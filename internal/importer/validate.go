package importer

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/folio/internal/domain"
)

// ValidateOrderPlan checks a plan before anything is sent. It returns every
// problem found rather than stopping at the first.
func ValidateOrderPlan(plan *OrderPlan) []error {
	if plan == nil || len(plan.Orders) == 0 {
		return []error{fmt.Errorf("orders: at least one content type is required")}
	}

	names := make([]string, 0, len(plan.Orders))
	for name := range plan.Orders {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	seenType := make(map[domain.ContentType]string)
	for _, name := range names {
		ct, err := domain.ParseContentType(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("orders.%s: %w", name, err))
			continue
		}
		if prev, dup := seenType[ct]; dup {
			errs = append(errs, fmt.Errorf("orders.%s: same content type as orders.%s", name, prev))
			continue
		}
		seenType[ct] = name
		errs = append(errs, validateIDs("orders."+name, plan.Orders[name])...)
	}
	return errs
}

func validateIDs(field string, ids []string) []error {
	if len(ids) == 0 {
		return []error{fmt.Errorf("%s: at least one id is required", field)}
	}
	var errs []error
	seen := make(map[string]int, len(ids))
	for i, id := range ids {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: id is empty", field, i))
			continue
		}
		if first, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate id %q (first at %d)", field, i, id, first))
			continue
		}
		seen[id] = i
	}
	return errs
}
